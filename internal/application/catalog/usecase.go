package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase casos de uso CRUD para el catálogo de ítems y ubicaciones.
// El catálogo es colaborador del ledger: los movimientos referencian estos
// registros pero las reglas de negocio documentales viven fuera.
type UseCase struct {
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(itemRepo repository.ItemRepository, locationRepo repository.LocationRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo, locationRepo: locationRepo}
}

// CreateItem crea un ítem (SKU único).
func (uc *UseCase) CreateItem(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, err := uc.itemRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		SKU:       in.SKU,
		Name:      in.Name,
		Unit:      in.Unit,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetItem obtiene un ítem por ID.
func (uc *UseCase) GetItem(id string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// ListItems lista ítems con paginación.
func (uc *UseCase) ListItems(limit, offset int) ([]dto.ItemResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list, err := uc.itemRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// CreateLocation crea una ubicación (código único).
func (uc *UseCase) CreateLocation(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	existing, err := uc.locationRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Zone:      in.Zone,
		Capacity:  in.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetLocation obtiene una ubicación por ID.
func (uc *UseCase) GetLocation(id string) (*dto.LocationResponse, error) {
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// ListLocations lista ubicaciones con paginación.
func (uc *UseCase) ListLocations(limit, offset int) ([]dto.LocationResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list, err := uc.locationRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, *toLocationResponse(l))
	}
	return out, nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        i.ID,
		SKU:       i.SKU,
		Name:      i.Name,
		Unit:      i.Unit,
		CreatedAt: i.CreatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Zone:      l.Zone,
		Capacity:  l.Capacity,
		CreatedAt: l.CreatedAt,
	}
}
