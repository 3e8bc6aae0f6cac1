package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/plant-store/internal/http/middleware"
	models "github.com/rogerio-castellano/plant-store/internal/models"
)

// GetPlant godoc
// @Summary Get plant by ID
// @Tags plants
// @Produce json
// @Param id path int true "Plant ID"
// @Success 200 {object} PlantResponse
// @Failure 404 {object} ErrorResponse "Plant not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /plants/{id} [get]
func (h *PlantHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgPlantNotFound)
		return
	}

	plant, err := h.plants.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, toPlantResponse(plant))
}

// UpdatePlant godoc
// @Summary Update a plant's stock flag
// @Description Only is_in_stock is applied; other keys are ignored and a missing or unreadable body changes nothing.
// @Tags plants
// @Accept json
// @Produce json
// @Param id path int true "Plant ID"
// @Param plant body UpdatePlantRequest false "Fields to change"
// @Success 200 {object} PlantResponse
// @Failure 404 {object} ErrorResponse "Plant not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /plants/{id} [patch]
func (h *PlantHandler) UpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgPlantNotFound)
		return
	}

	var req UpdatePlantRequest
	if err := readJSON(w, r, &req); err != nil {
		// An unreadable body carries no fields.
		middleware.Logger(r.Context()).WithError(err).Debug("ignoring update body")
		req = UpdatePlantRequest{}
	}

	updated, err := h.plants.Modify(r.Context(), id, func(p *models.Plant) {
		if req.IsInStock != nil {
			p.IsInStock = *req.IsInStock
		}
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, toPlantResponse(updated))
}

// DeletePlant godoc
// @Summary Delete a plant
// @Tags plants
// @Param id path int true "Plant ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {object} ErrorResponse "Plant not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /plants/{id} [delete]
func (h *PlantHandler) DeletePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := plantID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgPlantNotFound)
		return
	}

	if err := h.plants.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
