package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSortedPair(t *testing.T) {
	assert.Equal(t, Pair[NodeId, NodeId]{"PC1", "PC2"}, MakeSortedPair[NodeId]("PC2", "PC1"))
	assert.Equal(t, Pair[NodeId, NodeId]{"PC1", "PC2"}, MakeSortedPair[NodeId]("PC1", "PC2"))
	assert.Equal(t, Pair[int, int]{3, 3}, MakeSortedPair(3, 3))
}
