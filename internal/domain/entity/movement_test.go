package entity_test

import (
	"testing"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestValidReason_CatalogoCerrado(t *testing.T) {
	valid := []string{
		entity.ReasonRECEIVING,
		entity.ReasonSHIPPING,
		entity.ReasonWRITEOFF,
		entity.ReasonADJUSTMENT,
		entity.ReasonCYCLECOUNT,
		entity.ReasonRETURN,
		entity.ReasonTRANSFER,
	}
	for _, r := range valid {
		assert.True(t, entity.ValidReason(r), "%s debe ser un motivo válido", r)
	}

	assert.False(t, entity.ValidReason(""))
	assert.False(t, entity.ValidReason("receiving"), "los motivos son sensibles a mayúsculas")
	assert.False(t, entity.ValidReason("ROBO"))
}
