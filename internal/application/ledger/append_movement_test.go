package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppendFixture() (*memStore, *ledger.AppendMovementUseCase) {
	store := newMemStore()
	store.seedItem("item-1")
	store.seedLocation("A-01")
	store.seedLocation("B-02")
	uc := ledger.NewAppendMovementUseCase(
		&memTxRunner{store: store},
		&memItemRepo{store: store},
		&memLocationRepo{store: store},
	)
	return store, uc
}

func TestAppend_RecepcionSumaEnDestino(t *testing.T) {
	store, uc := newAppendFixture()

	mov, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:              "item-1",
		ToLocationID:        "A-01",
		QuantityChange:      qty(10),
		Reason:              "RECEIVING",
		ReferenceDocumentID: "PO-123",
		ActorID:             "user-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, mov.ID)
	assert.Equal(t, "user-1", mov.CreatedBy)
	assert.True(t, qty(10).Equal(store.balance("item-1", "A-01").Quantity))
}

func TestAppend_DespachoDescuentaDelOrigen(t *testing.T) {
	store, uc := newAppendFixture()
	store.seedBalance("item-1", "A-01", 10)

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		FromLocationID: "A-01",
		QuantityChange: qty(-4),
		Reason:         "SHIPPING",
	})

	require.NoError(t, err)
	assert.True(t, qty(6).Equal(store.balance("item-1", "A-01").Quantity))
}

func TestAppend_TransferenciaMueveStock(t *testing.T) {
	store, uc := newAppendFixture()
	store.seedBalance("item-1", "A-01", 10)

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		FromLocationID: "A-01",
		ToLocationID:   "B-02",
		QuantityChange: qty(3),
		Reason:         "TRANSFER",
	})

	require.NoError(t, err)
	assert.True(t, qty(7).Equal(store.balance("item-1", "A-01").Quantity))
	assert.True(t, qty(3).Equal(store.balance("item-1", "B-02").Quantity))
}

// TestAppend_TransferenciaSinStockSuficiente: el movimiento no debe quedar en
// el ledger si la transacción falla por stock insuficiente.
func TestAppend_TransferenciaSinStockSuficiente(t *testing.T) {
	store, uc := newAppendFixture()
	store.seedBalance("item-1", "A-01", 2)

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		FromLocationID: "A-01",
		ToLocationID:   "B-02",
		QuantityChange: qty(5),
		Reason:         "TRANSFER",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, store.movements, "una transferencia rechazada no escribe en el ledger")
	assert.True(t, qty(2).Equal(store.balance("item-1", "A-01").Quantity),
		"el saldo de origen queda intacto tras el rollback")
}

// TestAppend_DespachoPuedeDejarSaldoNegativo: los movimientos localizados de
// salida no se bloquean por insuficiencia; el saldo negativo resultante lo
// reporta el detector de anomalías para revisión humana.
func TestAppend_DespachoPuedeDejarSaldoNegativo(t *testing.T) {
	store, uc := newAppendFixture()
	store.seedBalance("item-1", "A-01", 2)

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		FromLocationID: "A-01",
		QuantityChange: qty(-5),
		Reason:         "SHIPPING",
	})

	require.NoError(t, err)
	assert.True(t, qty(-3).Equal(store.balance("item-1", "A-01").Quantity))
}

// ── Formas inválidas ──────────────────────────────────────────────────────────

func TestAppend_ErrorSinUbicaciones(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		QuantityChange: qty(-5),
		Reason:         "SHIPPING",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin ubicación el camino correcto es Consume")
}

func TestAppend_ErrorRecepcionNegativa(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		ToLocationID:   "A-01",
		QuantityChange: qty(-5),
		Reason:         "RECEIVING",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAppend_ErrorTransferenciaMismaUbicacion(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		FromLocationID: "A-01",
		ToLocationID:   "A-01",
		QuantityChange: qty(5),
		Reason:         "TRANSFER",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAppend_ErrorTransferenciaConMotivoDistinto(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		FromLocationID: "A-01",
		ToLocationID:   "B-02",
		QuantityChange: qty(5),
		Reason:         "RECEIVING",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dos ubicaciones exigen motivo TRANSFER")
}

func TestAppend_ErrorCantidadCero(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:       "item-1",
		ToLocationID: "A-01",
		Reason:       "RECEIVING",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAppend_FalloDeAlmacenSePropaga: un error del repositorio de ubicaciones
// sube sin traducir; ErrNotFound queda reservado para el registro ausente.
func TestAppend_FalloDeAlmacenSePropaga(t *testing.T) {
	store := newMemStore()
	store.seedItem("item-1")
	store.seedLocation("A-01")
	errCaida := errors.New("conexión perdida")
	uc := ledger.NewAppendMovementUseCase(
		&memTxRunner{store: store},
		&memItemRepo{store: store},
		&memLocationRepo{store: store, getErr: errCaida},
	)

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		ToLocationID:   "A-01",
		QuantityChange: qty(5),
		Reason:         "RECEIVING",
	})

	assert.ErrorIs(t, err, errCaida, "el error de almacenamiento se propaga sin traducir")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestAppend_ErrorUbicacionInexistente(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		ToLocationID:   "Z-99",
		QuantityChange: qty(5),
		Reason:         "RECEIVING",
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppend_ErrorMotivoDesconocido(t *testing.T) {
	_, uc := newAppendFixture()

	_, err := uc.Append(context.Background(), ledger.AppendInput{
		ItemID:         "item-1",
		ToLocationID:   "A-01",
		QuantityChange: qty(5),
		Reason:         "MISTERIO",
	})

	assert.ErrorIs(t, err, domain.ErrUnknownReason)
}
