package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
)

type TrackerHandler struct {
	tracker *services.TrackerService
	history *services.HistoryService
}

func NewTrackerHandler(tracker *services.TrackerService, history *services.HistoryService) *TrackerHandler {
	return &TrackerHandler{
		tracker: tracker,
		history: history,
	}
}

type addEntryRequest struct {
	Date        string `json:"date"`
	Kind        string `json:"kind" binding:"required"`
	Name        string `json:"name" binding:"required"`
	ConsumedAt  string `json:"consumed_at" binding:"required"`
	Amount      int    `json:"amount"`
	Unit        string `json:"unit"`
	Calories    *int   `json:"calories"`
	WaterIntake *int   `json:"water_intake"`
}

type updateTargetsRequest struct {
	Date          string `json:"date"`
	CalorieTarget int    `json:"calorie_target" binding:"required"`
	WaterTarget   int    `json:"water_target" binding:"required"`
	GoalType      string `json:"goal_type" binding:"required"`
}

type entryResponse struct {
	Entry     *domain.ConsumptionEntry `json:"entry"`
	Aggregate *domain.DailyAggregate   `json:"aggregate"`
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	tracker := router.Group("/tracker")
	{
		tracker.GET("", h.GetDay)
		tracker.POST("/entries", h.AddEntry)
		tracker.DELETE("/entries/:id", h.RemoveEntry)
		tracker.PUT("/targets", h.UpdateTargets)
		tracker.GET("/history", h.History)
		tracker.GET("/history/:date", h.HistoryDetail)
	}
}

// GetDay godoc
// @Summary  Daily tracker view
// @Tags     tracker
// @Produce  json
// @Param    date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} services.DailyView
// @Security BearerAuth
// @Router   /tracker [get]
func (h *TrackerHandler) GetDay(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date, err := optionalDate(c, "date")
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.tracker.DailyView(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddEntry godoc
// @Summary  Log a food or drink
// @Tags     tracker
// @Accept   json
// @Produce  json
// @Success  201 {object} entryResponse
// @Failure  400,422 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /tracker/entries [post]
func (h *TrackerHandler) AddEntry(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req addEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			handleError(c, err)
			return
		}
		date = d
	}

	entry, agg, err := h.tracker.AddEntry(c.Request.Context(), services.AddEntryInput{
		UserID: userID,
		Date:   date,
		Entry: domain.EntrySpec{
			Kind:        domain.EntryKind(req.Kind),
			Name:        req.Name,
			ConsumedAt:  req.ConsumedAt,
			Amount:      req.Amount,
			Unit:        req.Unit,
			Calories:    req.Calories,
			WaterIntake: req.WaterIntake,
		},
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entryResponse{Entry: entry, Aggregate: agg})
}

// RemoveEntry godoc
// @Summary  Delete a logged entry
// @Tags     tracker
// @Produce  json
// @Param    id path string true "entry id"
// @Success  200 {object} domain.DailyAggregate
// @Security BearerAuth
// @Router   /tracker/entries/{id} [delete]
func (h *TrackerHandler) RemoveEntry(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	agg, err := h.tracker.RemoveEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aggregate": agg})
}

// UpdateTargets godoc
// @Summary  Set the day's calorie, water and goal targets
// @Tags     tracker
// @Accept   json
// @Produce  json
// @Success  200 {object} domain.DailyAggregate
// @Security BearerAuth
// @Router   /tracker/targets [put]
func (h *TrackerHandler) UpdateTargets(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateTargetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			handleError(c, err)
			return
		}
		date = d
	}

	agg, err := h.tracker.UpdateTargets(c.Request.Context(), services.UpdateTargetsInput{
		UserID: userID,
		Date:   date,
		Targets: domain.Targets{
			CalorieTarget: req.CalorieTarget,
			WaterTarget:   req.WaterTarget,
			GoalType:      domain.GoalType(req.GoalType),
		},
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aggregate": agg})
}

// History godoc
// @Summary  Trailing window of daily aggregates with a rollup
// @Tags     history
// @Produce  json
// @Param    days   query int    false "window size, default 30"
// @Param    anchor query string false "YYYY-MM-DD, last day of the window"
// @Success  200 {object} services.HistoryReport
// @Security BearerAuth
// @Router   /tracker/history [get]
func (h *TrackerHandler) History(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	window := domain.HistoryWindow{}
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			v := domain.NewValidationError()
			v.Add("days", "must be a positive integer")
			handleError(c, v)
			return
		}
		window.Days = days
	}

	anchor, err := optionalDate(c, "anchor")
	if err != nil {
		handleError(c, err)
		return
	}
	window.Anchor = anchor

	report, err := h.history.History(c.Request.Context(), userID, window)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// HistoryDetail godoc
// @Summary  One recorded day with its entries
// @Tags     history
// @Produce  json
// @Param    date path string true "YYYY-MM-DD"
// @Success  200 {object} services.DayDetail
// @Failure  404 {object} map[string]interface{}
// @Security BearerAuth
// @Router   /tracker/history/{date} [get]
func (h *TrackerHandler) HistoryDetail(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	date, err := domain.ParseDate(c.Param("date"))
	if err != nil {
		handleError(c, err)
		return
	}

	detail, err := h.history.HistoryDetail(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
