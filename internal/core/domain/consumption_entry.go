package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type EntryKind string

const (
	EntryKindFood  EntryKind = "food"
	EntryKindDrink EntryKind = "drink"

	MaxEntryNameLen = 255
	MaxUnitLen      = 20
	DefaultUnit     = "gram"
)

func (k EntryKind) Valid() bool {
	return k == EntryKindFood || k == EntryKindDrink
}

var consumedAtRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ConsumptionEntry is one logged food or drink. Entries are immutable; the
// only mutations are insert and delete.
type ConsumptionEntry struct {
	ID          string    `json:"id" db:"id"`
	AggregateID string    `json:"aggregate_id" db:"aggregate_id"`
	Kind        EntryKind `json:"kind" db:"kind"`
	Name        string    `json:"name" db:"name"`
	ConsumedAt  string    `json:"consumed_at" db:"consumed_at"`
	Amount      int       `json:"amount" db:"amount"`
	Unit        string    `json:"unit" db:"unit"`
	Calories    int       `json:"calories" db:"calories"`
	WaterIntake int       `json:"water_intake" db:"water_intake"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// EntrySpec is the client-supplied description of a new entry. Nil
// Calories/WaterIntake default to zero and an empty Unit to DefaultUnit.
type EntrySpec struct {
	Kind        EntryKind
	Name        string
	ConsumedAt  string
	Amount      int
	Unit        string
	Calories    *int
	WaterIntake *int
}

func NewConsumptionEntry(spec EntrySpec) (*ConsumptionEntry, error) {
	name := strings.TrimSpace(spec.Name)
	unit := strings.TrimSpace(spec.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	consumedAt := strings.TrimSpace(spec.ConsumedAt)

	calories, water := 0, 0
	if spec.Calories != nil {
		calories = *spec.Calories
	}
	if spec.WaterIntake != nil {
		water = *spec.WaterIntake
	}

	v := NewValidationError()
	if !spec.Kind.Valid() {
		v.Add("kind", "must be food or drink")
	}
	if name == "" {
		v.Add("name", "is required")
	} else if utf8.RuneCountInString(name) > MaxEntryNameLen {
		v.Add("name", "is too long (max 255 chars)")
	}
	if !consumedAtRegex.MatchString(consumedAt) {
		v.Add("consumed_at", "must be HH:MM (24h)")
	}
	if spec.Amount <= 0 {
		v.Add("amount", "must be greater than zero")
	}
	if utf8.RuneCountInString(unit) > MaxUnitLen {
		v.Add("unit", "is too long (max 20 chars)")
	}
	if calories < 0 {
		v.Add("calories", "cannot be negative")
	}
	if water < 0 {
		v.Add("water_intake", "cannot be negative")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return &ConsumptionEntry{
		ID:          uuid.NewString(),
		Kind:        spec.Kind,
		Name:        name,
		ConsumedAt:  consumedAt,
		Amount:      spec.Amount,
		Unit:        unit,
		Calories:    calories,
		WaterIntake: water,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
