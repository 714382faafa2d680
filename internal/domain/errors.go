package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrUnknownItem            = errors.New("artículo no encontrado")
	ErrInactiveItem           = errors.New("artículo desactivado")
	ErrUnknownLocation        = errors.New("ubicación no encontrada")
	ErrInactiveLocation       = errors.New("ubicación desactivada")
	ErrUnitMismatch           = errors.New("la unidad no coincide con la declarada del artículo")
	ErrInvalidQuantity        = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrDuplicateItem          = errors.New("ya existe un artículo con esa denominación en la categoría")
	ErrDuplicateCentralBase   = errors.New("ya existe una base central registrada")
	ErrDefinitionNotFound     = errors.New("definición de producción no encontrada")
	ErrInactiveDefinition     = errors.New("definición de producción desactivada")
	ErrRunNotFound            = errors.New("ejecución de producción no encontrada")
	ErrInsufficientIngredient = errors.New("ingrediente insuficiente para la producción")
)

// InsufficientIngredientError indica qué ingrediente no alcanza en el
// pre-flight de una ejecución de producción.
type InsufficientIngredientError struct {
	ItemID    string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientIngredientError) Error() string {
	return fmt.Sprintf("ingrediente insuficiente %s: requiere %s, disponible %s",
		e.ItemID, e.Required.String(), e.Available.String())
}

// Is permite detectar el caso con errors.Is(err, ErrInsufficientIngredient).
func (e *InsufficientIngredientError) Is(target error) bool {
	return target == ErrInsufficientIngredient
}
