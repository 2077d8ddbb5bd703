package reconciliation

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// que necesita el motor de reconciliación: conteos, ledger y saldos. La
// aprobación de un conteo escribe ajustes al ledger y saldos atómicamente.
type TxRunner interface {
	RunCycleCount(ctx context.Context, fn func(
		ccRepo repository.CycleCountRepository,
		movRepo repository.MovementRepository,
		balRepo repository.BalanceRepository,
	) error) error
}
