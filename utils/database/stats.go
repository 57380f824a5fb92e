package database

import (
	"context"
	"fmt"
)

// TableNames lists the tables reported by TableCounts.
var TableNames = []string{"abmeldungen", "sanktionen", "panel_messages", "tuningchip", "stance", "xenon", "eigentuning"}

// TableCounts returns the row count of every table.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(TableNames))
	for _, table := range TableNames {
		var n int
		if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
