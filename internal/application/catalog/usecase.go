package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// UseCase administra el catálogo de artículos rastreables y el registro de
// ubicaciones. Los artículos nunca se borran físicamente: se desactivan, y el
// ledger rechaza movimientos nuevos sobre inactivos pero la historia sigue
// siendo válida para auditoría y replay.
type UseCase struct {
	itemRepo     repository.StockItemRepository
	locationRepo repository.LocationRepository
	log          *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(itemRepo repository.StockItemRepository, locationRepo repository.LocationRepository, log *logger.Logger) *UseCase {
	return &UseCase{itemRepo: itemRepo, locationRepo: locationRepo, log: log}
}

// RegisterItemInput entrada para registrar un artículo.
type RegisterItemInput struct {
	Denomination   string
	Category       string
	UnitName       string
	UnitSymbol     string
	UnitPrice      decimal.Decimal
	AlertThreshold decimal.Decimal
}

// RegisterItem da de alta un artículo. Rechaza denominaciones duplicadas
// (case-insensitive) dentro de la misma categoría.
func (uc *UseCase) RegisterItem(input RegisterItemInput) (*entity.StockItem, error) {
	if strings.TrimSpace(input.Denomination) == "" || !entity.ValidCategory(input.Category) {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(input.UnitSymbol) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice.IsNegative() || input.AlertThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.itemRepo.ExistsDenomination(input.Category, input.Denomination)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateItem
	}

	now := time.Now()
	item := &entity.StockItem{
		ID:             uuid.New().String(),
		Denomination:   strings.TrimSpace(input.Denomination),
		Category:       input.Category,
		Unit:           entity.Unit{Name: input.UnitName, Symbol: input.UnitSymbol},
		UnitPrice:      input.UnitPrice,
		AlertThreshold: input.AlertThreshold,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("denomination", item.Denomination).Msg("artículo registrado")
	return item, nil
}

// UpdateItemInput campos descriptivos editables de un artículo. La identidad y
// la unidad declarada son inmutables (no existe conversión implícita).
type UpdateItemInput struct {
	Denomination   string
	UnitPrice      decimal.Decimal
	AlertThreshold decimal.Decimal
}

// UpdateItem edita los campos descriptivos de un artículo.
func (uc *UseCase) UpdateItem(id string, input UpdateItemInput) (*entity.StockItem, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrUnknownItem
	}
	if strings.TrimSpace(input.Denomination) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice.IsNegative() || input.AlertThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	newDenomination := strings.TrimSpace(input.Denomination)
	if !strings.EqualFold(newDenomination, item.Denomination) {
		exists, err := uc.itemRepo.ExistsDenomination(item.Category, newDenomination)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateItem
		}
	}
	item.Denomination = newDenomination
	item.UnitPrice = input.UnitPrice
	item.AlertThreshold = input.AlertThreshold
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem marca el artículo como inactivo (soft delete).
func (uc *UseCase) DeactivateItem(id string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrUnknownItem
	}
	if !item.Active {
		return nil
	}
	item.Active = false
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return err
	}
	uc.log.Info().Str("item_id", id).Msg("artículo desactivado")
	return nil
}

// GetItem devuelve un artículo.
func (uc *UseCase) GetItem(id string) (*entity.StockItem, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrUnknownItem
	}
	return item, nil
}

// ListItems devuelve artículos con paginación.
func (uc *UseCase) ListItems(limit, offset int) ([]*entity.StockItem, error) {
	return uc.itemRepo.List(limit, offset)
}

// RegisterLocationInput entrada para registrar una ubicación.
type RegisterLocationInput struct {
	Denomination string
	Kind         string
}

// RegisterLocation da de alta una ubicación. La unicidad de la base central se
// garantiza acá, en el registro: es un invariante de negocio, no un camino
// especial del ledger.
func (uc *UseCase) RegisterLocation(input RegisterLocationInput) (*entity.Location, error) {
	if strings.TrimSpace(input.Denomination) == "" || !entity.ValidLocationKind(input.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if input.Kind == entity.LocationKindCentralBase {
		base, err := uc.locationRepo.GetCentralBase()
		if err != nil {
			return nil, err
		}
		if base != nil {
			return nil, domain.ErrDuplicateCentralBase
		}
	}

	now := time.Now()
	location := &entity.Location{
		ID:           uuid.New().String(),
		Denomination: strings.TrimSpace(input.Denomination),
		Kind:         input.Kind,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	uc.log.Info().Str("location_id", location.ID).Str("kind", location.Kind).Msg("ubicación registrada")
	return location, nil
}

// DeactivateLocation marca una ubicación como inactiva. La base central no se
// puede desactivar: es el punto de entrada obligatorio del stock nuevo.
func (uc *UseCase) DeactivateLocation(id string) error {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrUnknownLocation
	}
	if location.Kind == entity.LocationKindCentralBase {
		return domain.ErrInvalidInput
	}
	if !location.Active {
		return nil
	}
	location.Active = false
	location.UpdatedAt = time.Now()
	return uc.locationRepo.Update(location)
}

// GetLocation devuelve una ubicación.
func (uc *UseCase) GetLocation(id string) (*entity.Location, error) {
	location, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrUnknownLocation
	}
	return location, nil
}

// ListLocations devuelve ubicaciones con paginación.
func (uc *UseCase) ListLocations(limit, offset int) ([]*entity.Location, error) {
	return uc.locationRepo.List(limit, offset)
}
