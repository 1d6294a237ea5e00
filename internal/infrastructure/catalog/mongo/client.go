// Package mongo provides the recipe catalog client backed by the
// recipe document store.
package mongo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/infrastructure/config"
	"github.com/smartmeal/core/internal/ports/outbound"
	"github.com/smartmeal/core/pkg/errors"
)

// recipeDocument is the catalog's wire format
type recipeDocument struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Cuisine     string               `bson:"cuisine"`
	Tags        []string             `bson:"tags"`
	Ingredients []ingredientDocument `bson:"ingredients"`
	Servings    int                  `bson:"servings"`
	Nutrition   map[string]float64   `bson:"nutrition"`
}

type ingredientDocument struct {
	IngredientID string  `bson:"ingredient_id"`
	Quantity     float64 `bson:"quantity"`
	Unit         string  `bson:"unit"`
}

// RecipeCatalog implements the recipe catalog port against MongoDB
type RecipeCatalog struct {
	client       *mongo.Client
	collection   *mongo.Collection
	cfg          config.CatalogConfig
	logger       *zap.Logger
}

// NewRecipeCatalog connects to the document store and verifies the
// connection
func NewRecipeCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*RecipeCatalog, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Catalog.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to recipe catalog: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping recipe catalog: %w", err)
	}

	return &RecipeCatalog{
		client:       client,
		collection:   client.Database(cfg.Catalog.Database).Collection(cfg.Catalog.Collection),
		cfg:          cfg.Catalog,
		logger:       log.Named("recipe-catalog"),
	}, nil
}

// Search queries recipes by name or tag text, filtering out recipes
// that contain any of the excluded ingredient ids
func (c *RecipeCatalog) Search(ctx context.Context, query string, tags []string, excludeIngredientIDs []string, limit int) ([]outbound.RecipeDocument, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	filter := bson.M{}
	if query != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"tags": query},
		}
	}
	if len(tags) > 0 {
		filter["tags"] = bson.M{"$in": tags}
	}
	if len(excludeIngredientIDs) > 0 {
		filter["ingredients.ingredient_id"] = bson.M{"$nin": excludeIngredientIDs}
	}

	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := c.collection.Find(queryCtx, filter, opts)
	if err != nil {
		return nil, errors.NewDependencyUnavailableError("recipe catalog", err)
	}
	defer cursor.Close(queryCtx)

	var docs []recipeDocument
	if err := cursor.All(queryCtx, &docs); err != nil {
		return nil, errors.NewDependencyUnavailableError("recipe catalog", err)
	}

	results := make([]outbound.RecipeDocument, 0, len(docs))
	for _, doc := range docs {
		results = append(results, toPortDocument(doc))
	}

	c.logger.Debug("Catalog search",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// GetByID fetches one recipe document
func (c *RecipeCatalog) GetByID(ctx context.Context, recipeID string) (*outbound.RecipeDocument, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	var doc recipeDocument
	err := c.collection.FindOne(queryCtx, bson.M{"_id": recipeID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.NewRecipeNotFoundError(recipeID)
		}
		return nil, errors.NewDependencyUnavailableError("recipe catalog", err)
	}

	result := toPortDocument(doc)
	return &result, nil
}

// AggregateIngredients rolls up the total need of every ingredient
// across the given recipes. Quantities are per serving; each recipe's
// lines scale by its servings multiplier.
func (c *RecipeCatalog) AggregateIngredients(ctx context.Context, recipeIDs []string, servingsMultipliers map[string]decimal.Decimal) (map[string]outbound.AggregatedIngredient, error) {
	queryCtx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()

	cursor, err := c.collection.Find(queryCtx, bson.M{"_id": bson.M{"$in": recipeIDs}})
	if err != nil {
		return nil, errors.NewDependencyUnavailableError("recipe catalog", err)
	}
	defer cursor.Close(queryCtx)

	var docs []recipeDocument
	if err := cursor.All(queryCtx, &docs); err != nil {
		return nil, errors.NewDependencyUnavailableError("recipe catalog", err)
	}

	found := make(map[string]bool, len(docs))
	needs := make(map[string]outbound.AggregatedIngredient)
	for _, doc := range docs {
		found[doc.ID] = true
		multiplier, ok := servingsMultipliers[doc.ID]
		if !ok {
			multiplier = decimal.NewFromInt(1)
		}

		for _, ing := range doc.Ingredients {
			need := decimal.NewFromFloat(ing.Quantity).Mul(multiplier)

			agg, seen := needs[ing.IngredientID]
			if !seen {
				needs[ing.IngredientID] = outbound.AggregatedIngredient{
					IngredientID:  ing.IngredientID,
					TotalQty:      need,
					Unit:          ing.Unit,
					FromRecipeIDs: []string{doc.ID},
				}
				continue
			}
			if agg.Unit != ing.Unit {
				// Mixed units for one ingredient cannot be summed; keep
				// the first unit and list the need separately under a
				// composite key, with the real id on the struct
				key := ing.IngredientID + ":" + ing.Unit
				other := needs[key]
				other.IngredientID = ing.IngredientID
				other.TotalQty = other.TotalQty.Add(need)
				other.Unit = ing.Unit
				other.FromRecipeIDs = appendUnique(other.FromRecipeIDs, doc.ID)
				needs[key] = other
				continue
			}
			agg.TotalQty = agg.TotalQty.Add(need)
			agg.FromRecipeIDs = appendUnique(agg.FromRecipeIDs, doc.ID)
			needs[ing.IngredientID] = agg
		}
	}

	for _, id := range recipeIDs {
		if !found[id] {
			return nil, errors.NewRecipeNotFoundError(id)
		}
	}

	return needs, nil
}

// Ping verifies the document store connection
func (c *RecipeCatalog) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout)
	defer cancel()
	return c.client.Ping(pingCtx, nil)
}

// Close disconnects from the document store
func (c *RecipeCatalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func toPortDocument(doc recipeDocument) outbound.RecipeDocument {
	ingredients := make([]outbound.RecipeIngredient, 0, len(doc.Ingredients))
	for _, ing := range doc.Ingredients {
		ingredients = append(ingredients, outbound.RecipeIngredient{
			IngredientID: ing.IngredientID,
			Quantity:     decimal.NewFromFloat(ing.Quantity),
			Unit:         ing.Unit,
		})
	}

	return outbound.RecipeDocument{
		ID:          doc.ID,
		Name:        doc.Name,
		Cuisine:     doc.Cuisine,
		Tags:        doc.Tags,
		Ingredients: ingredients,
		Servings:    doc.Servings,
		Nutrition:   doc.Nutrition,
	}
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
