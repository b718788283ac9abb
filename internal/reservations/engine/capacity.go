package engine

import (
	"fmt"
	"maps"

	reservationserrors "rentals/internal/reservations/errors"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"
)

// CapacityTable holds the maximum number of concurrent reservations per category.
// It is read-only after construction and safe for concurrent reads.
type CapacityTable struct {
	capacities map[model.Category]int
}

func NewCapacityTable(capacities map[model.Category]int) (*CapacityTable, error) {
	if len(capacities) == 0 {
		return nil, configurationError("Capacity table must not be empty")
	}

	for category := range capacities {
		if !category.Valid() {
			return nil, configurationError(fmt.Sprintf("Capacity defined for unknown category %q", category))
		}
	}

	table := make(map[model.Category]int, len(capacities))
	for _, category := range model.Categories() {
		value, ok := capacities[category]
		if !ok {
			return nil, configurationError(fmt.Sprintf("Capacity for %s is missing", category))
		}
		if value < 0 {
			return nil, configurationError(fmt.Sprintf("Capacity for %s must be non-negative, got %d", category, value))
		}
		table[category] = value
	}

	return &CapacityTable{capacities: table}, nil
}

// Capacity returns 0 for a category that is not in the table.
func (t *CapacityTable) Capacity(category model.Category) int {
	return t.capacities[category]
}

func (t *CapacityTable) Capacities() map[model.Category]int {
	return maps.Clone(t.capacities)
}

func configurationError(message string) *apperrors.AppError {
	return apperrors.Configuration(message, reservationserrors.ErrConfiguration)
}
