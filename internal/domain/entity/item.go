package entity

import "time"

// Item representa un SKU almacenable en el almacén.
type Item struct {
	ID        string
	SKU       string
	Name      string
	Unit      string // unidad de medida: und, kg, lt...
	CreatedAt time.Time
	UpdatedAt time.Time
}
