// Package ids generates unique row identifiers from a snowflake node.
// Links and click events get snowflake IDs instead of database
// auto-increment, so identifiers stay unique even if stores are ever
// merged or replayed.
package ids

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator wraps a snowflake node.
type Generator struct {
	node *snowflake.Node
}

// New creates a generator for the given node ID (0-1023).
func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("ids: create node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

// Next returns a new unique ID.
func (g *Generator) Next() int64 {
	return g.node.Generate().Int64()
}
