package pantry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/domain/pantry"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// PantryService implements the pantry use cases
type PantryService struct {
	ledger *Ledger
	repo   outbound.PantryRepository
	graph  outbound.IngredientGraph
	tm     outbound.TransactionManager
	logger *zap.Logger
}

// NewPantryService creates a new pantry service
func NewPantryService(
	ledger *Ledger,
	repo outbound.PantryRepository,
	graph outbound.IngredientGraph,
	tm outbound.TransactionManager,
	logger *zap.Logger,
) inbound.PantryService {
	return &PantryService{
		ledger: ledger,
		repo:   repo,
		graph:  graph,
		tm:     tm,
		logger: logger.Named("pantry-service"),
	}
}

// UpsertBatch adds stock, merging into the batch with the identical
// (ingredient, unit, bestBefore) key. A concurrent insert racing on
// the key is retried once, then surfaced as an integrity conflict.
func (s *PantryService) UpsertBatch(ctx context.Context, cmd inbound.UpsertBatchCommand) (*inbound.PantryBatchDTO, error) {
	if err := validateUpsert(cmd); err != nil {
		return nil, err
	}

	s.logger.Info("Upserting pantry batch",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("ingredient_id", cmd.IngredientID),
		zap.String("quantity", cmd.Quantity.String()),
	)

	var batch *pantry.Batch
	attempt := func() error {
		return s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			var err error
			batch, err = s.ledger.Upsert(txCtx, cmd.UserID, cmd.IngredientID, cmd.Unit, cmd.Quantity, cmd.BestBefore, cmd.Source)
			return err
		})
	}

	err := attempt()
	if errors.Is(err, errors.CodeIntegrityConflict) {
		s.logger.Warn("Batch insert raced on unique key, retrying once",
			zap.String("ingredient_id", cmd.IngredientID))
		err = attempt()
	}
	if err != nil {
		return nil, err
	}

	dto := batchToDTO(batch)
	return &dto, nil
}

// SetPantry atomically replaces the user's entire pantry. Every
// ingredient id is validated against the relationship store first, and
// missing expiry dates are estimated from shelf-life metadata.
func (s *PantryService) SetPantry(ctx context.Context, cmd inbound.SetPantryCommand) ([]inbound.PantryBatchDTO, error) {
	if cmd.UserID == uuid.Nil {
		return nil, errors.NewValidationError("user id is required")
	}
	for i, item := range cmd.Items {
		if item.IngredientID == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("item %d: ingredient id is required", i))
		}
		if item.Unit == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("item %d: unit is required", i))
		}
		if item.Quantity.Sign() <= 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("item %d: quantity must be greater than zero", i))
		}
	}

	ids := make([]string, 0, len(cmd.Items))
	seen := make(map[string]bool)
	for _, item := range cmd.Items {
		if !seen[item.IngredientID] {
			seen[item.IngredientID] = true
			ids = append(ids, item.IngredientID)
		}
	}

	metadata := map[string]outbound.IngredientMetadata{}
	if len(ids) > 0 {
		var err error
		metadata, err = s.graph.GetMetadataBatch(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, known := metadata[id]; !known {
				return nil, errors.NewValidationError(fmt.Sprintf("unknown ingredient id %s", id))
			}
		}
	}

	s.logger.Info("Replacing pantry",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("items", len(cmd.Items)),
	)

	var batches []*pantry.Batch
	err := s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteByUser(txCtx, cmd.UserID); err != nil {
			return err
		}

		batches = batches[:0]
		for _, item := range cmd.Items {
			bestBefore := item.BestBefore
			if bestBefore == nil {
				bestBefore = estimateBestBefore(metadata[item.IngredientID])
			}

			batch, err := s.ledger.Upsert(txCtx, cmd.UserID, item.IngredientID, item.Unit, item.Quantity, bestBefore, "set-pantry")
			if err != nil {
				return err
			}
			batches = appendUnique(batches, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.PantryBatchDTO, 0, len(batches))
	for _, b := range batches {
		dtos = append(dtos, batchToDTO(b))
	}
	return dtos, nil
}

// SetQuantity replaces a batch's remaining quantity. Zero deletes the
// row rather than persisting it.
func (s *PantryService) SetQuantity(ctx context.Context, userID, batchID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.Sign() < 0 {
		return errors.NewValidationError("quantity must not be negative")
	}

	return s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		batch, err := s.ownedBatch(txCtx, userID, batchID)
		if err != nil {
			return err
		}

		if quantity.Sign() == 0 {
			return s.repo.Delete(txCtx, batch.ID())
		}

		if err := batch.SetQuantity(quantity); err != nil {
			return errors.NewValidationError(err.Error())
		}
		return s.repo.Update(txCtx, batch)
	})
}

// DeleteBatch removes a batch from the ledger
func (s *PantryService) DeleteBatch(ctx context.Context, userID, batchID uuid.UUID) error {
	return s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		batch, err := s.ownedBatch(txCtx, userID, batchID)
		if err != nil {
			return err
		}
		return s.repo.Delete(txCtx, batch.ID())
	})
}

// GetPantry lists the user's batches
func (s *PantryService) GetPantry(ctx context.Context, userID uuid.UUID) ([]inbound.PantryBatchDTO, error) {
	batches, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.PantryBatchDTO, 0, len(batches))
	for _, b := range batches {
		dtos = append(dtos, batchToDTO(b))
	}
	return dtos, nil
}

// Availability sums stock across the user's batches of one ingredient
func (s *PantryService) Availability(ctx context.Context, userID uuid.UUID, ingredientID, unit string) (decimal.Decimal, error) {
	if ingredientID == "" || unit == "" {
		return decimal.Zero, errors.NewValidationError("ingredient id and unit are required")
	}
	return s.ledger.Availability(ctx, userID, ingredientID, unit)
}

// ExpiringWithin lists batches expiring between today and today+days.
// Batches with unknown expiry are excluded.
func (s *PantryService) ExpiringWithin(ctx context.Context, userID uuid.UUID, days int) ([]inbound.PantryBatchDTO, error) {
	if days < 0 {
		return nil, errors.NewValidationError("days must not be negative")
	}

	batches, err := s.repo.FindExpiringWithin(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.PantryBatchDTO, 0, len(batches))
	for _, b := range batches {
		dtos = append(dtos, batchToDTO(b))
	}
	return dtos, nil
}

func (s *PantryService) ownedBatch(ctx context.Context, userID, batchID uuid.UUID) (*pantry.Batch, error) {
	batch, err := s.repo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.UserID() != userID {
		return nil, errors.NewNotFoundError("pantry batch")
	}
	return batch, nil
}

func validateUpsert(cmd inbound.UpsertBatchCommand) error {
	if cmd.UserID == uuid.Nil {
		return errors.NewValidationError("user id is required")
	}
	if cmd.IngredientID == "" {
		return errors.NewValidationError("ingredient id is required")
	}
	if cmd.Unit == "" {
		return errors.NewValidationError("unit is required")
	}
	if cmd.Quantity.Sign() <= 0 {
		return errors.NewValidationError("quantity must be greater than zero")
	}
	return nil
}

// estimateBestBefore derives an expiry date from shelf-life metadata.
// Non-perishables (no shelf life) keep an unknown expiry.
func estimateBestBefore(meta outbound.IngredientMetadata) *time.Time {
	if meta.ShelfLifeDays <= 0 {
		return nil
	}
	d := time.Now().AddDate(0, 0, meta.ShelfLifeDays)
	return &d
}

func appendUnique(batches []*pantry.Batch, batch *pantry.Batch) []*pantry.Batch {
	for _, b := range batches {
		if b.ID() == batch.ID() {
			return batches
		}
	}
	return append(batches, batch)
}

func batchToDTO(b *pantry.Batch) inbound.PantryBatchDTO {
	return inbound.PantryBatchDTO{
		ID:           b.ID(),
		IngredientID: b.IngredientID(),
		Quantity:     b.Quantity(),
		Unit:         b.Unit(),
		BestBefore:   b.BestBefore(),
		Source:       b.Source(),
		UpdatedAt:    b.UpdatedAt(),
	}
}
