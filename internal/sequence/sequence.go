package sequence

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alexbart/Church-management/internal/database"
)

// Prefixes for the entity series.
const (
	PrefixUser    = "USR"
	PrefixRevenue = "REV"
	PrefixExpense = "EXP"
)

// Allocator hands out human-readable sequential IDs like REV00001. Each
// prefix has its own counter row, bumped atomically so concurrent callers
// never observe the same value.
type Allocator struct {
	DB database.Querier
}

func NewAllocator(db database.Querier) *Allocator {
	return &Allocator{DB: db}
}

// Next returns the next ID for the given prefix. It never fails the caller:
// if the counter cannot be read, a timestamp-derived suffix is returned so
// the write can proceed (liveness over strict sequencing).
func (a *Allocator) Next(ctx context.Context, prefix string) string {
	var n int64
	err := a.DB.QueryRow(ctx, `
INSERT INTO number_series (prefix, last_value)
VALUES ($1, 1)
ON CONFLICT (prefix) DO UPDATE SET last_value = number_series.last_value + 1
RETURNING last_value
`, prefix).Scan(&n)
	if err != nil {
		log.Printf("sequence: counter for %s unavailable, falling back to timestamp: %v", prefix, err)
		ts := time.Now().UnixMilli() % 100000
		return fmt.Sprintf("%s%05d", prefix, ts)
	}
	return fmt.Sprintf("%s%05d", prefix, n)
}
