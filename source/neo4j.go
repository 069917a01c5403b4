package source

import (
	"context"
	"fmt"

	"github.com/encodeous/topomon/state"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const linkQuery = `MATCH (a:Node)-[l:LINK]->(b:Node)
RETURN a.id AS a, b.id AS b, l.bandwidth AS bandwidth
ORDER BY a, b`

// Neo4j reads links stored as (:Node {id})-[:LINK {bandwidth}]->(:Node {id}) relationships.
type Neo4j struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewNeo4j(ctx context.Context, cfg state.Neo4jCfg) (*Neo4j, error) {
	auth := neo4j.NoAuth()
	if cfg.User != "" {
		auth = neo4j.BasicAuth(cfg.User, cfg.Password, "")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.Uri, auth)
	if err != nil {
		return nil, err
	}
	if err = driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Uri, err)
	}
	database := cfg.Database
	if database == "" {
		database = state.DefaultNeo4jDbName
	}
	return &Neo4j{driver: driver, database: database}, nil
}

func (n *Neo4j) Fetch(ctx context.Context) ([]state.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, state.Neo4jSourceTimeout)
	defer cancel()
	result, err := neo4j.ExecuteQuery(ctx, n.driver, linkQuery,
		map[string]any{},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(n.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, err
	}
	return linksFromRecords(result.Records)
}

func (n *Neo4j) Close() error {
	return n.driver.Close(context.Background())
}

func linksFromRecords(records []*neo4j.Record) ([]state.Link, error) {
	links := make([]state.Link, 0, len(records))
	for i, rec := range records {
		a, aok := rec.Get("a")
		b, bok := rec.Get("b")
		bw, bwok := rec.Get("bandwidth")
		if !aok || !bok || !bwok {
			return nil, fmt.Errorf("record %d is missing a, b or bandwidth", i)
		}
		aId, aok := a.(string)
		bId, bok := b.(string)
		if !aok || !bok {
			return nil, fmt.Errorf("record %d has non-string node ids %T, %T", i, a, b)
		}
		var bandwidth float64
		switch v := bw.(type) {
		case int64:
			bandwidth = float64(v)
		case float64:
			bandwidth = v
		default:
			return nil, fmt.Errorf("record %d has bandwidth of type %T", i, bw)
		}
		links = append(links, state.Link{A: state.NodeId(aId), B: state.NodeId(bId), Bandwidth: bandwidth})
	}
	return links, nil
}
