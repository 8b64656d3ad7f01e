// routes.go - Builds the gin engine and mounts every endpoint

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"calorie-backend/auth"
	"calorie-backend/events"
	"calorie-backend/foodlog"
	"calorie-backend/middleware"
	"calorie-backend/nutrition"
	"calorie-backend/realtime"

	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Auth     *auth.Service
	Analyzer *nutrition.Analyzer
	Store    *foodlog.Store
	Events   *events.Fanout
	Hub      *realtime.Hub // Optional; /ws is not mounted without it
	Log      *slog.Logger
}

// NewRouter mounts the API at the root and again under /api.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))

	loc := time.UTC
	if d.Store != nil {
		loc = d.Store.Location()
	}
	authH := NewAuthHandler(d.Auth, loc, d.Log)
	foodH := NewFoodHandler(d.Analyzer, d.Store, d.Events, d.Log)
	requireAuth := middleware.Auth(d.Auth.Tokens())

	mount := func(g gin.IRouter) {
		g.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

		a := g.Group("/auth")
		a.POST("/register", authH.Register)
		a.POST("/signup", authH.Register) // Older clients
		a.POST("/login", authH.Login)
		a.GET("/user", requireAuth, authH.CurrentUser)

		f := g.Group("/food", requireAuth)
		f.GET("/barcode/:code", foodH.Barcode)
		f.POST("/analyze-food", foodH.AnalyzeFood)
		f.POST("/analyze-image", foodH.AnalyzeImage)
		f.POST("/analyze-text", foodH.AnalyzeText)
		f.POST("/save", foodH.Save)
		f.GET("/logs", foodH.Logs)
		f.GET("/history", foodH.History)
		f.GET("/today", foodH.Today)

		if d.Hub != nil {
			g.GET("/ws", requireAuth, func(c *gin.Context) {
				d.Hub.Serve(c.Writer, c.Request, middleware.UserID(c))
			})
		}
	}
	mount(r)
	mount(r.Group("/api"))
	return r
}
