package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/plant-store/internal/models"
)

// ErrPlantNotFound is returned when no live record has the requested id.
var ErrPlantNotFound = errors.New("plant not found")

// PlantRepository defines the interface for plant data operations.
type PlantRepository interface {
	Create(ctx context.Context, plant models.Plant) (models.Plant, error)
	GetByID(ctx context.Context, id int) (models.Plant, error)
	Update(ctx context.Context, plant models.Plant) (models.Plant, error)
	// Modify fetches the plant, applies fn to a copy and writes it back as
	// one atomic step.
	Modify(ctx context.Context, id int, fn func(*models.Plant)) (models.Plant, error)
	Delete(ctx context.Context, id int) error
}
