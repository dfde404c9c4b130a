package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wawanmain22/CaloMeter/internal/adapters/handler/http/middleware"
	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
)

type CalculatorHandler struct {
	calories *services.CalorieService
	bmi      *services.BMIService
}

func NewCalculatorHandler(calories *services.CalorieService, bmi *services.BMIService) *CalculatorHandler {
	return &CalculatorHandler{
		calories: calories,
		bmi:      bmi,
	}
}

type bodyMetricsRequest struct {
	HeightCm float64 `json:"height_cm" binding:"required"`
	WeightKg float64 `json:"weight_kg" binding:"required"`
	Gender   string  `json:"gender" binding:"required"`
	Age      int     `json:"age" binding:"required"`
}

func (r bodyMetricsRequest) metrics() domain.BodyMetrics {
	return domain.BodyMetrics{HeightCm: r.HeightCm, WeightKg: r.WeightKg, Gender: r.Gender, Age: r.Age}
}

type calorieRequest struct {
	bodyMetricsRequest
	ActivityLevel string `json:"activity_level" binding:"required"`
}

// RegisterPublicRoutes mounts the calculators themselves; they work for
// guests and persist only for signed-in callers.
func (h *CalculatorHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	calc := router.Group("/calculators")
	{
		calc.POST("/bmi", h.CalculateBMI)
		calc.POST("/calories", h.CalculateCalories)
	}
}

func (h *CalculatorHandler) RegisterRoutes(router *gin.RouterGroup) {
	calc := router.Group("/calculators")
	{
		calc.GET("/bmi", h.BMIHistory)
		calc.DELETE("/bmi/:id", h.DeleteBMI)
		calc.GET("/calories", h.CalorieHistory)
		calc.DELETE("/calories/:id", h.DeleteCalorie)
	}
}

// CalculateBMI godoc
// @Summary  Compute BMI and category
// @Tags     calculators
// @Accept   json
// @Produce  json
// @Success  200 {object} services.BMIResult
// @Router   /calculators/bmi [post]
func (h *CalculatorHandler) CalculateBMI(c *gin.Context) {
	var req bodyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	result, err := h.bmi.Calculate(c.Request.Context(), services.BMIInput{UserID: userID, Metrics: req.metrics()})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(statusFor(result.Saved), result)
}

// CalculateCalories godoc
// @Summary  Compute BMR, daily needs and goal targets
// @Tags     calculators
// @Accept   json
// @Produce  json
// @Success  200 {object} services.CalorieResult
// @Router   /calculators/calories [post]
func (h *CalculatorHandler) CalculateCalories(c *gin.Context) {
	var req calorieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	result, err := h.calories.Calculate(c.Request.Context(), services.CalorieInput{
		UserID:        userID,
		Metrics:       req.metrics(),
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(statusFor(result.Saved), result)
}

func (h *CalculatorHandler) BMIHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	records, err := h.bmi.History(c.Request.Context(), userID, limitParam(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *CalculatorHandler) CalorieHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	records, err := h.calories.History(c.Request.Context(), userID, limitParam(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *CalculatorHandler) DeleteBMI(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.bmi.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CalculatorHandler) DeleteCalorie(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.calories.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func statusFor(saved bool) int {
	if saved {
		return http.StatusCreated
	}
	return http.StatusOK
}

// limitParam ignores malformed values; the service applies its default.
func limitParam(c *gin.Context) int {
	n, _ := strconv.Atoi(c.Query("limit"))
	return n
}
