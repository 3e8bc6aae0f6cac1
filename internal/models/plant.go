package models

// Plant represents a plant record in the store.
type Plant struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	IsInStock bool    `json:"is_in_stock"`
}

// NewPlant builds an unsaved plant. New plants start in stock.
func NewPlant(name, image string, price float64) Plant {
	return Plant{
		Name:      name,
		Image:     image,
		Price:     price,
		IsInStock: true,
	}
}
