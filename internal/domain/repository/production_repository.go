package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// ProductionDefinitionRepository define el puerto de persistencia de recetas.
type ProductionDefinitionRepository interface {
	Create(def *entity.ProductionDefinition) error
	GetByID(id string) (*entity.ProductionDefinition, error)
	Update(def *entity.ProductionDefinition) error
	List(limit, offset int) ([]*entity.ProductionDefinition, error)
}

// ProductionRunRepository define el puerto de persistencia de ejecuciones de
// producción.
type ProductionRunRepository interface {
	Create(run *entity.ProductionRun) error
	GetByID(id string) (*entity.ProductionRun, error)
	Update(run *entity.ProductionRun) error
	ListByDefinition(definitionID string, limit, offset int) ([]*entity.ProductionRun, error)
}
