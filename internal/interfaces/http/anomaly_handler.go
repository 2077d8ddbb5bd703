package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/anomaly"
)

// AnomalyHandler expone el resumen de anomalías (solo lectura).
type AnomalyHandler struct {
	uc *anomaly.UseCase
}

// NewAnomalyHandler construye el handler.
func NewAnomalyHandler(uc *anomaly.UseCase) *AnomalyHandler {
	return &AnomalyHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de anomalías para revisión humana
// @Description  Stock negativo, ubicaciones sobre capacidad y movimientos
//
//	recientes con oscilación alta. Nada se auto-corrige.
//
// @Tags         anomalies
// @Produce      json
// @Success      200  {object}  anomaly.Summary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/anomalies/summary [get]
func (h *AnomalyHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
