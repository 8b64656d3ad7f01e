// food.go - Handles food analysis, saving and the log views

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"calorie-backend/events"
	"calorie-backend/foodlog"
	"calorie-backend/middleware"
	"calorie-backend/models"
	"calorie-backend/nutrition"

	"github.com/gin-gonic/gin"
)

// AnalyzeInput is the body of the analyze endpoints. analyze-food takes either
// field; the image wins when both are present.
type AnalyzeInput struct {
	Query       string `json:"query"`
	ImageBase64 string `json:"imageBase64"`
	Portion     string `json:"portion" binding:"omitempty,portion"`
}

// SaveInput is the body of POST /food/save: an analysis the user confirmed.
type SaveInput struct {
	FoodName  string           `json:"foodName" binding:"required"`
	Calories  float64          `json:"calories" binding:"gte=0"`
	Nutrients models.Nutrients `json:"nutrients"`
	MealType  string           `json:"mealType" binding:"omitempty,mealtype"`
}

type FoodHandler struct {
	analyzer *nutrition.Analyzer
	store    *foodlog.Store
	events   *events.Fanout
	log      *slog.Logger
}

func NewFoodHandler(a *nutrition.Analyzer, s *foodlog.Store, ev *events.Fanout, log *slog.Logger) *FoodHandler {
	if ev == nil {
		ev = events.NewFanout(log)
	}
	return &FoodHandler{analyzer: a, store: s, events: ev, log: log}
}

func (h *FoodHandler) bindAnalyze(c *gin.Context) (AnalyzeInput, nutrition.Portion, bool) {
	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return input, "", false
	}
	p, err := nutrition.ParsePortion(input.Portion)
	if err != nil {
		respondError(c, h.log, err)
		return input, "", false
	}
	return input, p, true
}

// Barcode looks a product up; unknown codes still get a placeholder result.
func (h *FoodHandler) Barcode(c *gin.Context) {
	res, err := h.analyzer.LookupBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalyzeFood dispatches to the image or text path depending on the body.
func (h *FoodHandler) AnalyzeFood(c *gin.Context) {
	input, p, ok := h.bindAnalyze(c)
	if !ok {
		return
	}
	if strings.TrimSpace(input.ImageBase64) != "" {
		h.analyzeImage(c, input.ImageBase64, p)
		return
	}
	c.JSON(http.StatusOK, h.analyzer.AnalyzeText(c.Request.Context(), input.Query, p))
}

func (h *FoodHandler) AnalyzeImage(c *gin.Context) {
	input, p, ok := h.bindAnalyze(c)
	if !ok {
		return
	}
	if strings.TrimSpace(input.ImageBase64) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "imageBase64 is required"})
		return
	}
	h.analyzeImage(c, input.ImageBase64, p)
}

func (h *FoodHandler) analyzeImage(c *gin.Context, img string, p nutrition.Portion) {
	res, err := h.analyzer.AnalyzeImage(c.Request.Context(), img, p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FoodHandler) AnalyzeText(c *gin.Context) {
	input, p, ok := h.bindAnalyze(c)
	if !ok {
		return
	}
	if strings.TrimSpace(input.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "query is required"})
		return
	}
	c.JSON(http.StatusOK, h.analyzer.AnalyzeText(c.Request.Context(), input.Query, p))
}

// Save persists a confirmed entry. Nothing is written without an authenticated user.
func (h *FoodHandler) Save(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == 0 {
		respondError(c, h.log, foodlog.ErrUnauthenticated)
		return
	}
	var input SaveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	saved, err := h.store.Save(c.Request.Context(), userID, foodlog.Input{
		FoodName:  input.FoodName,
		Calories:  input.Calories,
		Nutrients: input.Nutrients,
		MealType:  models.MealType(input.MealType),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.events.EmitAsync(events.Event{Kind: events.KindFoodLogSaved, UserID: userID, Data: saved})
	c.JSON(http.StatusOK, gin.H{
		"message":   "Food entry saved",
		"foodEntry": saved.Entry,
		"streak":    saved.Streak,
	})
}

// Logs lists the caller's entries, newest first.
func (h *FoodHandler) Logs(c *gin.Context) {
	entries, err := h.store.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// History groups the caller's entries by calendar day.
func (h *FoodHandler) History(c *gin.Context) {
	days, err := h.store.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *FoodHandler) Today(c *gin.Context) {
	today, err := h.store.Today(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, today)
}
