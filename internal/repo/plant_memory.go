package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/plant-store/internal/models"
)

// InMemoryPlantRepository is an in-memory implementation of PlantRepository.
type InMemoryPlantRepository struct {
	mu     sync.RWMutex
	plants []models.Plant
	nextID int
}

// NewInMemoryPlantRepository creates a new instance of InMemoryPlantRepository.
func NewInMemoryPlantRepository() *InMemoryPlantRepository {
	return &InMemoryPlantRepository{
		plants: []models.Plant{},
		nextID: 1,
	}
}

// Create adds a new plant to the repository.
func (r *InMemoryPlantRepository) Create(_ context.Context, plant models.Plant) (models.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plant.ID = r.nextID
	r.nextID++
	r.plants = append(r.plants, plant)
	return plant, nil
}

// GetByID retrieves a plant by its ID.
func (r *InMemoryPlantRepository) GetByID(_ context.Context, id int) (models.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.plants[i], nil
	}
	return models.Plant{}, ErrPlantNotFound
}

// Update replaces a stored plant with the given one.
func (r *InMemoryPlantRepository) Update(_ context.Context, plant models.Plant) (models.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(plant.ID)
	if i < 0 {
		return models.Plant{}, ErrPlantNotFound
	}
	r.plants[i] = plant
	return plant, nil
}

// Modify implements PlantRepository. The write lock is held for the whole
// read-modify-write.
func (r *InMemoryPlantRepository) Modify(_ context.Context, id int, fn func(*models.Plant)) (models.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Plant{}, ErrPlantNotFound
	}

	p := r.plants[i]
	fn(&p)
	p.ID = id
	r.plants[i] = p
	return p, nil
}

// Delete removes a plant from the repository by its ID.
func (r *InMemoryPlantRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrPlantNotFound
	}
	r.plants = append(r.plants[:i], r.plants[i+1:]...)
	return nil
}

// Clear drops every stored plant. Ids keep counting up.
func (r *InMemoryPlantRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plants = []models.Plant{}
}

func (r *InMemoryPlantRepository) indexOf(id int) int {
	for i, p := range r.plants {
		if p.ID == id {
			return i
		}
	}
	return -1
}
