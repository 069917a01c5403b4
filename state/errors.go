package state

import "errors"

var (
	// ErrInvalidInput is returned for link data that cannot form a weighted graph.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDecryption is returned when a link snapshot does not survive the secure channel round trip.
	ErrDecryption = errors.New("decryption failed")
)
