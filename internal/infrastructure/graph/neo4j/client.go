// Package neo4j provides the ingredient relationship store client.
// Every failure surfaces as a dependency-unavailable error; the engine
// never substitutes fabricated relationship data.
package neo4j

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/infrastructure/config"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// IngredientGraph implements the ingredient graph port against Neo4j
type IngredientGraph struct {
	driver neo4j.DriverWithContext
	cfg    config.GraphConfig
	logger *zap.Logger
}

// NewIngredientGraph connects to the relationship store and verifies
// the connection
func NewIngredientGraph(ctx context.Context, cfg *config.Config, log *zap.Logger) (*IngredientGraph, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Graph.URI,
		neo4j.BasicAuth(cfg.Graph.Username, cfg.Graph.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Graph.ConnectTimeout)
	defer cancel()

	if err := driver.VerifyConnectivity(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to verify graph connectivity: %w", err)
	}

	return &IngredientGraph{
		driver: driver,
		cfg:    cfg.Graph,
		logger: log.Named("ingredient-graph"),
	}, nil
}

// GetMetadata fetches one ingredient's record
func (g *IngredientGraph) GetMetadata(ctx context.Context, ingredientID string) (*outbound.IngredientMetadata, error) {
	records, err := g.run(ctx, `
		MATCH (i:Ingredient {id: $id})
		RETURN i.id AS id, i.name AS name, i.category AS category,
		       i.perishability AS perishability, i.shelf_life_days AS shelfLifeDays`,
		map[string]any{"id": ingredientID},
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewNotFoundError("ingredient")
	}

	meta := recordToMetadata(records[0])
	return &meta, nil
}

// GetMetadataBatch fetches several ingredient records in one query.
// Unknown ids are simply absent from the result map.
func (g *IngredientGraph) GetMetadataBatch(ctx context.Context, ingredientIDs []string) (map[string]outbound.IngredientMetadata, error) {
	records, err := g.run(ctx, `
		MATCH (i:Ingredient)
		WHERE i.id IN $ids
		RETURN i.id AS id, i.name AS name, i.category AS category,
		       i.perishability AS perishability, i.shelf_life_days AS shelfLifeDays`,
		map[string]any{"ids": ingredientIDs},
	)
	if err != nil {
		return nil, err
	}

	result := make(map[string]outbound.IngredientMetadata, len(records))
	for _, record := range records {
		meta := recordToMetadata(record)
		result[meta.ID] = meta
	}

	return result, nil
}

// CheckConflicts returns which of the given ids the user is allergic to
// according to the relationship store
func (g *IngredientGraph) CheckConflicts(ctx context.Context, ingredientIDs []string, userID uuid.UUID) ([]string, error) {
	records, err := g.run(ctx, `
		MATCH (u:User {id: $userId})-[:ALLERGIC_TO]->(i:Ingredient)
		WHERE i.id IN $ids
		RETURN i.id AS id`,
		map[string]any{"userId": userID.String(), "ids": ingredientIDs},
	)
	if err != nil {
		return nil, err
	}

	conflicts := make([]string, 0, len(records))
	for _, record := range records {
		if id, ok := record.Get("id"); ok {
			if s, ok := id.(string); ok {
				conflicts = append(conflicts, s)
			}
		}
	}

	return conflicts, nil
}

// FindSubstitutes returns up to limit substitute candidates ordered by
// relationship confidence, none of which appear in excludeIDs
func (g *IngredientGraph) FindSubstitutes(ctx context.Context, ingredientID string, excludeIDs []string, limit int) ([]string, error) {
	records, err := g.run(ctx, `
		MATCH (i:Ingredient {id: $id})-[s:SUBSTITUTED_BY]->(sub:Ingredient)
		WHERE NOT sub.id IN $exclude
		RETURN sub.id AS id
		ORDER BY s.confidence DESC
		LIMIT $limit`,
		map[string]any{"id": ingredientID, "exclude": excludeIDs, "limit": limit},
	)
	if err != nil {
		return nil, err
	}

	substitutes := make([]string, 0, len(records))
	for _, record := range records {
		if id, ok := record.Get("id"); ok {
			if s, ok := id.(string); ok {
				substitutes = append(substitutes, s)
			}
		}
	}

	return substitutes, nil
}

// Ping verifies the relationship store connection
func (g *IngredientGraph) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, g.cfg.QueryTimeout)
	defer cancel()
	return g.driver.VerifyConnectivity(pingCtx)
}

// Close shuts the driver down
func (g *IngredientGraph) Close(ctx context.Context) error {
	return g.driver.Close(ctx)
}

func (g *IngredientGraph) run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	queryCtx, cancel := context.WithTimeout(ctx, g.cfg.QueryTimeout)
	defer cancel()

	session := g.driver.NewSession(queryCtx, neo4j.SessionConfig{
		DatabaseName: g.cfg.Database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(queryCtx)

	records, err := session.ExecuteRead(queryCtx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(queryCtx, cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(queryCtx)
	})
	if err != nil {
		return nil, errors.NewDependencyUnavailableError("ingredient graph", err)
	}

	return records.([]*neo4j.Record), nil
}

func recordToMetadata(record *neo4j.Record) outbound.IngredientMetadata {
	meta := outbound.IngredientMetadata{}
	if v, ok := record.Get("id"); ok {
		meta.ID, _ = v.(string)
	}
	if v, ok := record.Get("name"); ok {
		meta.Name, _ = v.(string)
	}
	if v, ok := record.Get("category"); ok {
		meta.Category, _ = v.(string)
	}
	if v, ok := record.Get("perishability"); ok {
		meta.Perishability, _ = v.(string)
	}
	if v, ok := record.Get("shelfLifeDays"); ok {
		if days, ok := v.(int64); ok {
			meta.ShelfLifeDays = int(days)
		}
	}
	return meta
}
