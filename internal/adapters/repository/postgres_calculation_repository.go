package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

var (
	_ domain.CalorieCalculationRepository = (*PostgresCalorieCalculationRepository)(nil)
	_ domain.BMIRecordRepository          = (*PostgresBMIRecordRepository)(nil)
)

const calculationColumns = `id, user_id, height_cm, weight_kg, gender, age, activity_level,
	bmr, daily_calories, activity_multiplier,
	recommend_maintain, recommend_lose, recommend_gain, created_at`

const bmiColumns = `id, user_id, height_cm, weight_kg, gender, age, bmi, category, created_at`

type PostgresCalorieCalculationRepository struct {
	db *sqlx.DB
}

func NewPostgresCalorieCalculationRepository(db *sqlx.DB) *PostgresCalorieCalculationRepository {
	return &PostgresCalorieCalculationRepository{db: db}
}

func (r *PostgresCalorieCalculationRepository) Create(ctx context.Context, record *domain.CalorieCalculationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO calorie_calculations (`+calculationColumns+`)
		VALUES (:id, :user_id, :height_cm, :weight_kg, :gender, :age, :activity_level,
			:bmr, :daily_calories, :activity_multiplier,
			:recommend_maintain, :recommend_lose, :recommend_gain, :created_at)`, record)
	if err != nil {
		return fmt.Errorf("repository: create calorie calculation failed: %w", err)
	}
	return nil
}

func (r *PostgresCalorieCalculationRepository) Latest(ctx context.Context, userID string) (*domain.CalorieCalculationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var record domain.CalorieCalculationRecord
	err := r.db.GetContext(ctx, &record,
		`SELECT `+calculationColumns+` FROM calorie_calculations
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("repository: latest calorie calculation failed: %w", err)
	}
	return &record, nil
}

func (r *PostgresCalorieCalculationRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.CalorieCalculationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	records := []*domain.CalorieCalculationRecord{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT `+calculationColumns+` FROM calorie_calculations
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: list calorie calculations failed: %w", err)
	}
	return records, nil
}

func (r *PostgresCalorieCalculationRepository) Delete(ctx context.Context, id, userID string) error {
	return deleteOwned(ctx, r.db, "calorie_calculations", id, userID)
}

type PostgresBMIRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresBMIRecordRepository(db *sqlx.DB) *PostgresBMIRecordRepository {
	return &PostgresBMIRecordRepository{db: db}
}

func (r *PostgresBMIRecordRepository) Create(ctx context.Context, record *domain.BMIRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bmi_records (`+bmiColumns+`)
		VALUES (:id, :user_id, :height_cm, :weight_kg, :gender, :age, :bmi, :category, :created_at)`, record)
	if err != nil {
		return fmt.Errorf("repository: create bmi record failed: %w", err)
	}
	return nil
}

func (r *PostgresBMIRecordRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.BMIRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	records := []*domain.BMIRecord{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT `+bmiColumns+` FROM bmi_records
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: list bmi records failed: %w", err)
	}
	return records, nil
}

func (r *PostgresBMIRecordRepository) Delete(ctx context.Context, id, userID string) error {
	return deleteOwned(ctx, r.db, "bmi_records", id, userID)
}

// deleteOwned answers ErrRecordNotFound for a missing row and ErrForbidden
// for someone else's.
func deleteOwned(ctx context.Context, db *sqlx.DB, table, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var owner string
	err := db.GetContext(ctx, &owner, `SELECT user_id FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("repository: lookup %s failed: %w", table, err)
	}
	if owner != userID {
		return domain.ErrForbidden
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("repository: delete from %s failed: %w", table, err)
	}
	return nil
}
