package handlers

import "github.com/rogerio-castellano/plant-store/internal/models"

type PlantResponse struct {
	Id        int     `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	IsInStock bool    `json:"is_in_stock"`
}

// UpdatePlantRequest is the PATCH body. A nil field was not sent.
type UpdatePlantRequest struct {
	IsInStock *bool `json:"is_in_stock"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func toPlantResponse(p models.Plant) PlantResponse {
	return PlantResponse{
		Id:        p.ID,
		Name:      p.Name,
		Image:     p.Image,
		Price:     p.Price,
		IsInStock: p.IsInStock,
	}
}
