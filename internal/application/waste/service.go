// Package waste records discarded pantry stock and keeps the ledger in
// step with what was thrown away.
package waste

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/application/pantry"
	"github.com/smartmeal/core/internal/domain/cooking"
	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

const defaultHistoryDays = 30

// WasteService implements the waste tracking use cases
type WasteService struct {
	userRepo  outbound.UserRepository
	graph     outbound.IngredientGraph
	ledger    *pantry.Ledger
	wasteRepo outbound.WasteLogRepository
	tm        outbound.TransactionManager
	logger    *zap.Logger
}

// NewWasteService creates a new waste service
func NewWasteService(
	userRepo outbound.UserRepository,
	graph outbound.IngredientGraph,
	ledger *pantry.Ledger,
	wasteRepo outbound.WasteLogRepository,
	tm outbound.TransactionManager,
	logger *zap.Logger,
) inbound.WasteService {
	return &WasteService{
		userRepo:  userRepo,
		graph:     graph,
		ledger:    ledger,
		wasteRepo: wasteRepo,
		tm:        tm,
		logger:    logger.Named("waste-service"),
	}
}

// LogWaste validates the ingredient against the relationship store,
// writes the waste record and drains the pantry oldest-expiry-first in
// one transaction. The drain caps at available stock, so discarding
// more than the ledger holds still records the full wasted quantity.
func (s *WasteService) LogWaste(ctx context.Context, cmd inbound.LogWasteCommand) (*inbound.WasteEntryDTO, error) {
	if cmd.Quantity.Sign() <= 0 {
		return nil, errors.NewValidationError("quantity must be positive")
	}
	if cmd.Unit == "" {
		return nil, errors.NewValidationError("unit is required")
	}

	exists, err := s.userRepo.Exists(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewUserNotFoundError(cmd.UserID.String())
	}

	if _, err := s.graph.GetMetadata(ctx, cmd.IngredientID); err != nil {
		return nil, err
	}

	entry, err := cooking.NewWasteEntry(cmd.UserID, cmd.IngredientID, cmd.Quantity, cmd.Unit, cmd.Reason)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = s.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.wasteRepo.Create(txCtx, entry); err != nil {
			return err
		}
		_, _, err := s.ledger.DecrementForIngredient(txCtx, cmd.UserID, cmd.IngredientID, cmd.Unit, cmd.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Waste recorded",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("ingredient_id", cmd.IngredientID),
		zap.String("quantity", cmd.Quantity.String()),
		zap.String("unit", cmd.Unit),
	)

	dto := entryToDTO(entry)
	return &dto, nil
}

// WasteHistory lists the user's waste records over the trailing window
func (s *WasteService) WasteHistory(ctx context.Context, userID uuid.UUID, days int) ([]inbound.WasteEntryDTO, error) {
	if days <= 0 {
		days = defaultHistoryDays
	}

	since := time.Now().AddDate(0, 0, -days)
	entries, err := s.wasteRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	dtos := make([]inbound.WasteEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, entryToDTO(e))
	}
	return dtos, nil
}

func entryToDTO(e *cooking.WasteEntry) inbound.WasteEntryDTO {
	return inbound.WasteEntryDTO{
		ID:           e.ID(),
		IngredientID: e.IngredientID(),
		Quantity:     e.Quantity(),
		Unit:         e.Unit(),
		Reason:       e.Reason(),
		OccurredAt:   e.OccurredAt(),
	}
}
