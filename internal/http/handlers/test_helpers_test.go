package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rogerio-castellano/plant-store/internal/http/handlers"
	"github.com/rogerio-castellano/plant-store/internal/http/router"
	"github.com/rogerio-castellano/plant-store/internal/models"
	"github.com/rogerio-castellano/plant-store/internal/repo"
	log "github.com/sirupsen/logrus"
)

var errStoreDown = errors.New("store unavailable")

// failingRepo answers every call with errStoreDown.
type failingRepo struct{}

func (failingRepo) Create(context.Context, models.Plant) (models.Plant, error) {
	return models.Plant{}, errStoreDown
}
func (failingRepo) GetByID(context.Context, int) (models.Plant, error) {
	return models.Plant{}, errStoreDown
}
func (failingRepo) Update(context.Context, models.Plant) (models.Plant, error) {
	return models.Plant{}, errStoreDown
}
func (failingRepo) Modify(context.Context, int, func(*models.Plant)) (models.Plant, error) {
	return models.Plant{}, errStoreDown
}
func (failingRepo) Delete(context.Context, int) error { return errStoreDown }

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter(t *testing.T) (http.Handler, *repo.InMemoryPlantRepository) {
	t.Helper()
	plantRepo := repo.NewInMemoryPlantRepository()
	r := router.NewRouter(router.Deps{
		Plants: handlers.NewPlantHandler(plantRepo),
		Logger: quietLogger(),
	})
	return r, plantRepo
}

func createPlant(t *testing.T, plantRepo repo.PlantRepository, p models.Plant) models.Plant {
	t.Helper()
	created, err := plantRepo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("creating plant: %v", err)
	}
	return created
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func plantPath(id int) string {
	return fmt.Sprintf("/plants/%d", id)
}
