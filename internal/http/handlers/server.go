package handlers

import (
	"net/http"

	repo "github.com/rogerio-castellano/plant-store/internal/repo"
)

// PlantHandler serves the /plants endpoints on top of a PlantRepository.
type PlantHandler struct {
	plants repo.PlantRepository
}

func NewPlantHandler(plants repo.PlantRepository) *PlantHandler {
	return &PlantHandler{plants: plants}
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
