package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/wawanmain22/CaloMeter/internal/adapters/handler/http"
	"github.com/wawanmain22/CaloMeter/internal/adapters/repository"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "calometer"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "calometer_test"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := repository.Open(ctx, "pgx", dsn)
	if err != nil {
		t.Skipf("Skipping end-to-end test: %v", err)
	}
	require.NoError(t, repository.Migrate(ctx, db))
	return db
}

func call(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_DailyTracking(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	defer db.Close()

	users := repository.NewPostgresUserRepository(db)
	aggregates := repository.NewPostgresDailyAggregateRepository(db)
	entries := repository.NewPostgresConsumptionEntryRepository(db)
	calcs := repository.NewPostgresCalorieCalculationRepository(db)

	tokens := services.NewTokenService("e2e-secret", "calometer-e2e", time.Hour, users)
	history := services.NewHistoryService(aggregates, entries)
	clock := services.FixedClock{At: time.Now().UTC()}
	tracker := services.NewTrackerService(aggregates, entries, services.NewSuggestionService(calcs), history, clock)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(services.NewAuthService(users, tokens)),
		TrackerHandler:    adapterHTTP.NewTrackerHandler(tracker, history),
		CalculatorHandler: adapterHTTP.NewCalculatorHandler(services.NewCalorieService(calcs), services.NewBMIService(repository.NewPostgresBMIRecordRepository(db))),
		TokenService:      tokens,
		DB:                db,
		Logger:            zerolog.Nop(),
		StartTime:         time.Now(),
	})

	email := fmt.Sprintf("e2e-%s@calometer.app", uuid.NewString()[:8])
	var token string

	t.Run("1. Register and login", func(t *testing.T) {
		w := call(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email": email, "username": "e2e", "gender": "male", "password": "password123",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = call(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": email, "password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		token = body.Token
		require.NotEmpty(t, token)
	})

	t.Run("1b. Profile update persists birth date", func(t *testing.T) {
		w := call(t, router, http.MethodPut, "/api/v1/profile", token, map[string]string{
			"username": "e2e-renamed", "gender": "male", "birth_date": "1994-08-17",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = call(t, router, http.MethodGet, "/api/v1/profile", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"birth_date":"1994-08-17"`)
		assert.Contains(t, w.Body.String(), `"username":"e2e-renamed"`)
	})

	t.Run("2. Calorie calculation seeds a suggestion", func(t *testing.T) {
		w := call(t, router, http.MethodPost, "/api/v1/calculators/calories", token, map[string]any{
			"height_cm": 175, "weight_kg": 70, "gender": "male", "age": 30, "activity_level": "moderately_active",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("3. Log entries", func(t *testing.T) {
		for _, e := range []map[string]any{
			{"kind": "food", "name": "Rice", "consumed_at": "12:00", "amount": 1, "unit": "plate", "calories": 500},
			{"kind": "drink", "name": "Tea", "consumed_at": "15:00", "amount": 250, "unit": "ml", "calories": 50, "water_intake": 300},
		} {
			w := call(t, router, http.MethodPost, "/api/v1/tracker/entries", token, e)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}
	})

	t.Run("4. Daily view reflects totals", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/tracker", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view services.DailyView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Len(t, view.Entries, 2)
		assert.Equal(t, 550, view.Aggregate.TotalCalorieIntake)
		assert.Equal(t, 300, view.Aggregate.TotalWaterIntake)
		assert.Len(t, view.WeeklyHistory, 1)
	})

	t.Run("5. Custom targets suppress suggestions", func(t *testing.T) {
		w := call(t, router, http.MethodPut, "/api/v1/tracker/targets", token, map[string]any{
			"calorie_target": 2200, "water_target": 2500, "goal_type": "gain_weight",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = call(t, router, http.MethodGet, "/api/v1/tracker", token, nil)
		var view services.DailyView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Nil(t, view.Suggestion)
		assert.Equal(t, 25.0, view.Aggregate.CalorieProgressPercentage)
	})

	t.Run("6. History", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/tracker/history", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var report services.HistoryReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		require.Len(t, report.Items, 1)
		assert.Equal(t, 2, report.Items[0].EntryCount)
	})
}
