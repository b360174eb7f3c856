// Package api exposes the Telegram webhook and a read-only JSON view of the plan.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"mealwise/internal/app"
	"mealwise/internal/schedule"
	"mealwise/internal/shopping"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// updateTimeout bounds the work done for one Telegram update, LLM calls included.
const updateTimeout = 2 * time.Minute

// UpdateHandler processes Telegram updates. *telegram.Bot implements it.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// SlotView is one planned meal in the /api/week response.
type SlotView struct {
	Day        schedule.Day  `json:"day"`
	Slot       schedule.Slot `json:"slot"`
	RecipeID   string        `json:"recipe_id,omitempty"`
	RecipeName string        `json:"recipe_name,omitempty"`
}

type handler struct {
	app    *app.App
	bot    UpdateHandler
	logger *zap.Logger

	updates sync.WaitGroup
}

// Router is the HTTP engine plus the updates it is still handling in the background.
type Router struct {
	*gin.Engine
	h *handler
}

// Drain waits for in-flight webhook updates to finish or for ctx to end.
func (r *Router) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.h.updates.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewRouter builds the HTTP engine. bot may be nil, in which case /webhook is not served.
func NewRouter(a *app.App, bot UpdateHandler, logger *zap.Logger) *Router {
	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(requestid.New())
	router.Use(Logger(logger))

	h := &handler{app: a, bot: bot, logger: logger}

	router.GET("/health", h.health)
	if bot != nil {
		router.POST("/webhook", h.webhook)
	}

	api := router.Group("/api")
	{
		api.GET("/week", h.week)
		api.GET("/shopping", h.shopping)
	}
	return &Router{Engine: router, h: h}
}

// webhook acknowledges the update at once; Telegram retries slow responses.
func (h *handler) webhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("Error parsing update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update"})
		return
	}

	h.updates.Add(1)
	go func() {
		defer h.updates.Done()
		defer func() {
			if err := recover(); err != nil {
				h.logger.Error("Panic while handling update",
					zap.Int("update_id", update.UpdateID),
					zap.Any("error", err),
					zap.Stack("stack"))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()
		h.bot.HandleUpdate(ctx, update)
	}()
	c.Status(http.StatusOK)
}

func (h *handler) health(c *gin.Context) {
	health := h.app.Health()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"timestamp":  time.Now().UTC(),
		"alloc_mb":   health.AllocMB,
		"sys_mb":     health.SysMB,
		"goroutines": health.Goroutines,
		"data_size":  health.DataSize(),
	})
}

func (h *handler) week(c *gin.Context) {
	p := h.app.Planner()
	week := p.Week()

	slots := make([]SlotView, 0, len(schedule.Days)*len(schedule.Slots))
	for _, e := range week.Entries() {
		v := SlotView{Day: e.Day, Slot: e.Slot}
		if r, ok := p.Slot(e.Day, e.Slot); ok {
			v.RecipeID = r.ID
			v.RecipeName = r.Name
		}
		slots = append(slots, v)
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// shopping derives a fresh list; acquired state lives in chat sessions only.
func (h *handler) shopping(c *gin.Context) {
	items := h.app.Planner().NewSession().Refresh()
	if c.Query("format") == "text" {
		c.String(http.StatusOK, shopping.Export(items))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
