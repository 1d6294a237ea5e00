package pantry

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mutation records one batch-level change applied during a consumption
// pass, for logging and verification by callers.
type Mutation struct {
	BatchID   uuid.UUID
	Taken     decimal.Decimal
	Remaining decimal.Decimal
	Deleted   bool
}

// SortOldestFirst orders batches for consumption: earliest bestBefore
// first, unknown expiry last (unknown is treated as non-expiring), with
// creation time as a deterministic secondary key.
func SortOldestFirst(batches []*Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		bi, bj := batches[i].bestBefore, batches[j].bestBefore
		switch {
		case bi == nil && bj == nil:
			return batches[i].createdAt.Before(batches[j].createdAt)
		case bi == nil:
			return false
		case bj == nil:
			return true
		case !bi.Equal(*bj):
			return bi.Before(*bj)
		default:
			return batches[i].createdAt.Before(batches[j].createdAt)
		}
	})
}

// ConsumeOldestFirst walks the batches in expiry order and takes from
// each until required is met or the batches are exhausted. It mutates
// the batch entities in memory; persisting (or discarding) the result
// is the caller's responsibility. Returns the mutations applied and
// the total amount actually deducted, which is less than required when
// stock ran out.
func ConsumeOldestFirst(batches []*Batch, required decimal.Decimal) ([]Mutation, decimal.Decimal, error) {
	if required.Sign() <= 0 {
		return nil, decimal.Zero, ErrNonPositiveQuantity
	}

	SortOldestFirst(batches)

	var mutations []Mutation
	remaining := required
	for _, b := range batches {
		if remaining.Sign() == 0 {
			break
		}
		if b.IsEmpty() {
			continue
		}

		taken, err := b.Consume(remaining)
		if err != nil {
			return nil, decimal.Zero, err
		}
		remaining = remaining.Sub(taken)

		mutations = append(mutations, Mutation{
			BatchID:   b.ID(),
			Taken:     taken,
			Remaining: b.Quantity(),
			Deleted:   b.IsEmpty(),
		})
	}

	return mutations, required.Sub(remaining), nil
}

// TotalQuantity sums the remaining quantity across batches
func TotalQuantity(batches []*Batch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Quantity())
	}
	return total
}
