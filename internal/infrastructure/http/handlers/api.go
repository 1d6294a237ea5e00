// Package handlers provides the REST API endpoints
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smartmeal/core/internal/ports/inbound"
	"github.com/smartmeal/core/pkg/errors"
)

// APIHandler wires the application services to the REST surface
type APIHandler struct {
	pantry         inbound.PantryService
	fulfillment    inbound.FulfillmentService
	planner        inbound.PlannerService
	recommendation inbound.RecommendationService
	shopping       inbound.ShoppingService
	waste          inbound.WasteService
	logger         *zap.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	pantry inbound.PantryService,
	fulfillment inbound.FulfillmentService,
	planner inbound.PlannerService,
	recommendation inbound.RecommendationService,
	shopping inbound.ShoppingService,
	waste inbound.WasteService,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		pantry:         pantry,
		fulfillment:    fulfillment,
		planner:        planner,
		recommendation: recommendation,
		shopping:       shopping,
		waste:          waste,
		logger:         logger.Named("api"),
	}
}

// RegisterRoutes mounts the API routes
func (h *APIHandler) RegisterRoutes(engine *gin.Engine) {
	users := engine.Group("/api/v1/users/:userID")
	{
		users.GET("/pantry", h.getPantry)
		users.PUT("/pantry", h.setPantry)
		users.POST("/pantry/batches", h.upsertBatch)
		users.PATCH("/pantry/batches/:batchID", h.setBatchQuantity)
		users.DELETE("/pantry/batches/:batchID", h.deleteBatch)
		users.GET("/pantry/availability", h.availability)
		users.GET("/pantry/expiring", h.expiring)

		users.POST("/cook", h.cookRecipe)
		users.GET("/recipes/:recipeID/shopping-list", h.shoppingListForRecipe)
		users.GET("/cooking/history", h.cookingHistory)
		users.GET("/cooking/stats", h.cookingStats)

		users.POST("/plans", h.generatePlan)
		users.GET("/plans", h.listPlans)
		users.GET("/plans/:planID", h.getPlan)
		users.DELETE("/plans/:planID", h.deletePlan)
		users.POST("/plans/:planID/shopping-list", h.buildShoppingList)

		users.GET("/recommendations", h.recommend)
		users.GET("/recommendations/expiring", h.suggestForExpiring)

		users.GET("/shopping-lists", h.listShoppingLists)
		users.GET("/shopping-lists/:listID", h.getShoppingList)
		users.PATCH("/shopping-lists/:listID/items/:itemID", h.setItemChecked)
		users.DELETE("/shopping-lists/:listID", h.deleteShoppingList)

		users.POST("/waste", h.logWaste)
		users.GET("/waste", h.wasteHistory)
	}
}

// Pantry endpoints

type upsertBatchRequest struct {
	IngredientID string          `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	BestBefore   *time.Time      `json:"best_before"`
	Source       string          `json:"source"`
}

func (h *APIHandler) upsertBatch(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req upsertBatchRequest
	if !h.bind(c, &req) {
		return
	}

	dto, err := h.pantry.UpsertBatch(c.Request.Context(), inbound.UpsertBatchCommand{
		UserID:       userID,
		IngredientID: req.IngredientID,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		BestBefore:   req.BestBefore,
		Source:       req.Source,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

type setPantryRequest struct {
	Items []struct {
		IngredientID string          `json:"ingredient_id" binding:"required"`
		Quantity     decimal.Decimal `json:"quantity" binding:"required"`
		Unit         string          `json:"unit" binding:"required"`
		BestBefore   *time.Time      `json:"best_before"`
	} `json:"items"`
}

func (h *APIHandler) setPantry(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req setPantryRequest
	if !h.bind(c, &req) {
		return
	}

	items := make([]inbound.SetPantryItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, inbound.SetPantryItem{
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			BestBefore:   item.BestBefore,
		})
	}

	dtos, err := h.pantry.SetPantry(c.Request.Context(), inbound.SetPantryCommand{UserID: userID, Items: items})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": dtos})
}

func (h *APIHandler) getPantry(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	dtos, err := h.pantry.GetPantry(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": dtos})
}

type setQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

func (h *APIHandler) setBatchQuantity(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	batchID, ok := h.pathID(c, "batchID")
	if !ok {
		return
	}

	var req setQuantityRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.pantry.SetQuantity(c.Request.Context(), userID, batchID, req.Quantity); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *APIHandler) deleteBatch(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	batchID, ok := h.pathID(c, "batchID")
	if !ok {
		return
	}

	if err := h.pantry.DeleteBatch(c.Request.Context(), userID, batchID); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *APIHandler) availability(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	ingredientID := c.Query("ingredient_id")
	unit := c.Query("unit")
	if ingredientID == "" || unit == "" {
		h.renderError(c, errors.NewValidationError("ingredient_id and unit query parameters are required"))
		return
	}

	total, err := h.pantry.Availability(c.Request.Context(), userID, ingredientID, unit)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient_id": ingredientID, "unit": unit, "available": total})
}

func (h *APIHandler) expiring(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	dtos, err := h.pantry.ExpiringWithin(c.Request.Context(), userID, h.intQuery(c, "days", 3))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"batches": dtos})
}

// Fulfillment endpoints

type cookRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
	Servings int    `json:"servings" binding:"required"`
}

func (h *APIHandler) cookRecipe(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req cookRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.fulfillment.CookRecipe(c.Request.Context(), inbound.CookRecipeCommand{
		UserID:   userID,
		RecipeID: req.RecipeID,
		Servings: req.Servings,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) shoppingListForRecipe(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	result, err := h.fulfillment.ShoppingListForRecipe(c.Request.Context(), inbound.CookRecipeCommand{
		UserID:   userID,
		RecipeID: c.Param("recipeID"),
		Servings: h.intQuery(c, "servings", 0),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) cookingHistory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	items, err := h.fulfillment.CookingHistory(c.Request.Context(), userID, h.intQuery(c, "days", 30))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": items})
}

func (h *APIHandler) cookingStats(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	stats, err := h.fulfillment.CookingStats(c.Request.Context(), userID, h.intQuery(c, "days", 30))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Planner endpoints

type generatePlanRequest struct {
	WeekStart        time.Time `json:"week_start" binding:"required"`
	Days             int       `json:"days" binding:"required"`
	UseSubstitutions bool      `json:"use_substitutions"`
	ServingsPerMeal  int       `json:"servings_per_meal"`
}

func (h *APIHandler) generatePlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req generatePlanRequest
	if !h.bind(c, &req) {
		return
	}

	dto, err := h.planner.GeneratePlan(c.Request.Context(), inbound.GeneratePlanCommand{
		UserID:           userID,
		WeekStart:        req.WeekStart,
		Days:             req.Days,
		UseSubstitutions: req.UseSubstitutions,
		ServingsPerMeal:  req.ServingsPerMeal,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

func (h *APIHandler) getPlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	planID, ok := h.pathID(c, "planID")
	if !ok {
		return
	}

	dto, err := h.planner.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

func (h *APIHandler) listPlans(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	list, err := h.planner.ListUserPlans(c.Request.Context(), userID, inbound.PaginationParams{
		Offset: h.intQuery(c, "offset", 0),
		Limit:  h.intQuery(c, "limit", 20),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *APIHandler) deletePlan(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	planID, ok := h.pathID(c, "planID")
	if !ok {
		return
	}

	if err := h.planner.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Recommendation endpoints

func (h *APIHandler) recommend(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	results, err := h.recommendation.Recommend(c.Request.Context(), inbound.RecommendCommand{
		UserID: userID,
		Limit:  h.intQuery(c, "limit", 0),
		Tags:   c.QueryArray("tag"),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": results})
}

func (h *APIHandler) suggestForExpiring(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	result, err := h.recommendation.SuggestForExpiring(c.Request.Context(), userID, h.intQuery(c, "days", 3))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Shopping endpoints

func (h *APIHandler) buildShoppingList(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	planID, ok := h.pathID(c, "planID")
	if !ok {
		return
	}

	dto, err := h.shopping.BuildListForPlan(c.Request.Context(), inbound.BuildListCommand{
		UserID: userID,
		PlanID: planID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

func (h *APIHandler) getShoppingList(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	listID, ok := h.pathID(c, "listID")
	if !ok {
		return
	}

	dto, err := h.shopping.GetList(c.Request.Context(), userID, listID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto)
}

func (h *APIHandler) listShoppingLists(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	page, err := h.shopping.ListUserLists(c.Request.Context(), userID, inbound.PaginationParams{
		Offset: h.intQuery(c, "offset", 0),
		Limit:  h.intQuery(c, "limit", 20),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

type setCheckedRequest struct {
	Checked bool `json:"checked"`
}

func (h *APIHandler) setItemChecked(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	listID, ok := h.pathID(c, "listID")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemID")
	if !ok {
		return
	}

	var req setCheckedRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.shopping.SetItemChecked(c.Request.Context(), userID, listID, itemID, req.Checked); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *APIHandler) deleteShoppingList(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	listID, ok := h.pathID(c, "listID")
	if !ok {
		return
	}

	if err := h.shopping.DeleteList(c.Request.Context(), userID, listID); err != nil {
		h.renderError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Waste endpoints

type logWasteRequest struct {
	IngredientID string          `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	Reason       string          `json:"reason"`
}

func (h *APIHandler) logWaste(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req logWasteRequest
	if !h.bind(c, &req) {
		return
	}

	dto, err := h.waste.LogWaste(c.Request.Context(), inbound.LogWasteCommand{
		UserID:       userID,
		IngredientID: req.IngredientID,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Reason:       req.Reason,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto)
}

func (h *APIHandler) wasteHistory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	entries, err := h.waste.WasteHistory(c.Request.Context(), userID, h.intQuery(c, "days", 30))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Helpers

func (h *APIHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	return h.pathID(c, "userID")
}

func (h *APIHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.renderError(c, errors.NewValidationError(name+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *APIHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.renderError(c, errors.NewValidationError(err.Error()))
		return false
	}
	return true
}

func (h *APIHandler) intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (h *APIHandler) renderError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, "request failed")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(appErr.StatusCode(), errors.ToErrorResponse(appErr))
}
