package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "users",
		sql: `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  username TEXT NOT NULL,
  gender TEXT NOT NULL CHECK (gender IN ('male', 'female')),
  password_hash TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`,
	},
	{
		version: 2,
		name:    "daily_tracking",
		sql: `
CREATE TABLE IF NOT EXISTS daily_aggregates (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  date DATE NOT NULL,
  calorie_target INTEGER NOT NULL CHECK (calorie_target > 0),
  water_target INTEGER NOT NULL CHECK (water_target > 0),
  goal_type TEXT NOT NULL,
  total_calorie_intake INTEGER NOT NULL DEFAULT 0 CHECK (total_calorie_intake >= 0),
  total_water_intake INTEGER NOT NULL DEFAULT 0 CHECK (total_water_intake >= 0),
  calorie_progress_percentage NUMERIC(7,2) NOT NULL DEFAULT 0,
  water_progress_percentage NUMERIC(7,2) NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  UNIQUE (user_id, date)
);

CREATE TABLE IF NOT EXISTS consumption_entries (
  id TEXT PRIMARY KEY,
  aggregate_id TEXT NOT NULL REFERENCES daily_aggregates(id) ON DELETE CASCADE,
  kind TEXT NOT NULL CHECK (kind IN ('food', 'drink')),
  name VARCHAR(255) NOT NULL,
  consumed_at TEXT NOT NULL,
  amount INTEGER NOT NULL CHECK (amount > 0),
  unit VARCHAR(20) NOT NULL,
  calories INTEGER NOT NULL DEFAULT 0 CHECK (calories >= 0),
  water_intake INTEGER NOT NULL DEFAULT 0 CHECK (water_intake >= 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_daily_aggregates_user_date ON daily_aggregates(user_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_consumption_entries_aggregate ON consumption_entries(aggregate_id, consumed_at);
`,
	},
	{
		version: 3,
		name:    "calculators",
		sql: `
CREATE TABLE IF NOT EXISTS calorie_calculations (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  height_cm NUMERIC(6,2) NOT NULL,
  weight_kg NUMERIC(6,2) NOT NULL,
  gender TEXT NOT NULL,
  age INTEGER NOT NULL,
  activity_level TEXT NOT NULL,
  bmr NUMERIC(8,2) NOT NULL,
  daily_calories NUMERIC(8,2) NOT NULL,
  activity_multiplier NUMERIC(4,3) NOT NULL,
  recommend_maintain INTEGER NOT NULL,
  recommend_lose INTEGER NOT NULL,
  recommend_gain INTEGER NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS bmi_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  height_cm NUMERIC(6,2) NOT NULL,
  weight_kg NUMERIC(6,2) NOT NULL,
  gender TEXT NOT NULL,
  age INTEGER NOT NULL,
  bmi NUMERIC(6,2) NOT NULL,
  category TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_calorie_calculations_user ON calorie_calculations(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_bmi_records_user ON bmi_records(user_id, created_at DESC);
`,
	},
	{
		version: 4,
		name:    "user_birth_date",
		sql:     `ALTER TABLE users ADD COLUMN IF NOT EXISTS birth_date DATE;`,
	},
}

// Migrate applies every migration not yet recorded in schema_migrations,
// each in its own transaction.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.GetContext(ctx, &exists, `SELECT 1 FROM schema_migrations WHERE version = $1`, m.version)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, name) VALUES($1, $2)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}

// AppliedMigrations lists the recorded versions in order.
func AppliedMigrations(ctx context.Context, db *sqlx.DB) ([]int, error) {
	var versions []int
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	return versions, nil
}
