package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawanmain22/CaloMeter/internal/adapters/repository"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
)

func setupCalculators(userID string) *trackerFixture {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	handler := NewCalculatorHandler(
		services.NewCalorieService(store.Calculations()),
		services.NewBMIService(store.BMIRecords()),
	)

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(asUser(userID))
	handler.RegisterPublicRoutes(group)
	handler.RegisterRoutes(group)

	return &trackerFixture{router: router, store: store}
}

var adultMale = map[string]any{
	"height_cm": 175, "weight_kg": 70, "gender": "male", "age": 30,
}

func TestCalculatorHandler_Calories(t *testing.T) {
	t.Run("guest gets numbers without persistence", func(t *testing.T) {
		f := setupCalculators("")
		payload := map[string]any{"activity_level": "moderately_active"}
		for k, v := range adultMale {
			payload[k] = v
		}

		w := f.do(http.MethodPost, "/api/v1/calculators/calories", payload)

		require.Equal(t, http.StatusOK, w.Code)
		var result services.CalorieResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.Saved)
		assert.InDelta(t, 1695.67, result.Record.BMR, 0.01)
		assert.Equal(t, result.Targets.Maintain-500, result.Targets.Lose)
	})

	t.Run("signed in user gets a stored record", func(t *testing.T) {
		f := setupCalculators("u1")
		payload := map[string]any{"activity_level": "sedentary"}
		for k, v := range adultMale {
			payload[k] = v
		}

		w := f.do(http.MethodPost, "/api/v1/calculators/calories", payload)
		require.Equal(t, http.StatusCreated, w.Code)

		w = f.do(http.MethodGet, "/api/v1/calculators/calories", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)

		id := list[0]["id"].(string)
		w = f.do(http.MethodDelete, "/api/v1/calculators/calories/"+id, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = f.do(http.MethodDelete, "/api/v1/calculators/calories/"+id, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown activity level is 400", func(t *testing.T) {
		f := setupCalculators("")
		payload := map[string]any{"activity_level": "couch"}
		for k, v := range adultMale {
			payload[k] = v
		}

		w := f.do(http.MethodPost, "/api/v1/calculators/calories", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "activity_level")
	})
}

func TestCalculatorHandler_BMI(t *testing.T) {
	f := setupCalculators("u1")

	w := f.do(http.MethodPost, "/api/v1/calculators/bmi", adultMale)
	require.Equal(t, http.StatusCreated, w.Code)

	var result services.BMIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Saved)
	assert.InDelta(t, 22.86, result.Record.BMI, 0.001)
	assert.Equal(t, "Normal weight", result.Record.Category)

	w = f.do(http.MethodGet, "/api/v1/calculators/bmi?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), result.Record.ID)

	t.Run("history requires a user", func(t *testing.T) {
		guest := setupCalculators("")
		w := guest.do(http.MethodGet, "/api/v1/calculators/bmi", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
