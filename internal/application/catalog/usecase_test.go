package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/catalog"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/memory"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

func newCatalog(t *testing.T) *catalog.UseCase {
	t.Helper()
	store := memory.NewStore()
	return catalog.NewUseCase(
		memory.NewStockItemRepository(store),
		memory.NewLocationRepository(store),
		logger.Nop(),
	)
}

func itemInput(denomination, category string) catalog.RegisterItemInput {
	return catalog.RegisterItemInput{
		Denomination:   denomination,
		Category:       category,
		UnitName:       "kilogramme",
		UnitSymbol:     "kg",
		UnitPrice:      decimal.NewFromInt(2),
		AlertThreshold: decimal.NewFromInt(5),
	}
}

func TestRegisterItem_DuplicadoCaseInsensitive(t *testing.T) {
	uc := newCatalog(t)

	_, err := uc.RegisterItem(itemInput("Farine", entity.CategoryIngredient))
	require.NoError(t, err)

	_, err = uc.RegisterItem(itemInput("FARINE", entity.CategoryIngredient))
	assert.ErrorIs(t, err, domain.ErrDuplicateItem)

	// El folding es Unicode, no solo ASCII: los acentos también cuentan.
	_, err = uc.RegisterItem(itemInput("Crème fraîche", entity.CategoryIngredient))
	require.NoError(t, err)
	_, err = uc.RegisterItem(itemInput("CRÈME FRAÎCHE", entity.CategoryIngredient))
	assert.ErrorIs(t, err, domain.ErrDuplicateItem)
}

func TestRegisterItem_MismaDenominacionEnOtraCategoria(t *testing.T) {
	uc := newCatalog(t)

	_, err := uc.RegisterItem(itemInput("Citron", entity.CategoryIngredient))
	require.NoError(t, err)

	// La unicidad es por categoría: en otra categoría la denominación es válida.
	_, err = uc.RegisterItem(itemInput("Citron", entity.CategoryConsommable))
	assert.NoError(t, err)
}

func TestRegisterItem_Validacion(t *testing.T) {
	uc := newCatalog(t)

	_, err := uc.RegisterItem(itemInput("  ", entity.CategoryIngredient))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "denominación vacía")

	_, err = uc.RegisterItem(itemInput("Farine", "categoria-inventada"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "categoría desconocida")

	in := itemInput("Farine", entity.CategoryIngredient)
	in.UnitSymbol = ""
	_, err = uc.RegisterItem(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unidad sin símbolo")

	in = itemInput("Farine", entity.CategoryIngredient)
	in.UnitPrice = decimal.NewFromInt(-1)
	_, err = uc.RegisterItem(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")
}

func TestUpdateItem_DenominacionDuplicada(t *testing.T) {
	uc := newCatalog(t)

	_, err := uc.RegisterItem(itemInput("Farine", entity.CategoryIngredient))
	require.NoError(t, err)
	sucre, err := uc.RegisterItem(itemInput("Sucre", entity.CategoryIngredient))
	require.NoError(t, err)

	_, err = uc.UpdateItem(sucre.ID, catalog.UpdateItemInput{
		Denomination:   "farine",
		UnitPrice:      sucre.UnitPrice,
		AlertThreshold: sucre.AlertThreshold,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateItem)

	// Renombrar a sí mismo con otra capitalización sí es válido.
	updated, err := uc.UpdateItem(sucre.ID, catalog.UpdateItemInput{
		Denomination:   "SUCRE",
		UnitPrice:      sucre.UnitPrice,
		AlertThreshold: sucre.AlertThreshold,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCRE", updated.Denomination)
}

func TestDeactivateItem_Idempotente(t *testing.T) {
	uc := newCatalog(t)

	item, err := uc.RegisterItem(itemInput("Farine", entity.CategoryIngredient))
	require.NoError(t, err)

	require.NoError(t, uc.DeactivateItem(item.ID))
	require.NoError(t, uc.DeactivateItem(item.ID), "desactivar dos veces no es error")

	got, err := uc.GetItem(item.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, uc.DeactivateItem("no-existe"), domain.ErrUnknownItem)
}

func TestRegisterLocation_BaseCentralUnica(t *testing.T) {
	uc := newCatalog(t)

	_, err := uc.RegisterLocation(catalog.RegisterLocationInput{
		Denomination: "Base Central", Kind: entity.LocationKindCentralBase,
	})
	require.NoError(t, err)

	_, err = uc.RegisterLocation(catalog.RegisterLocationInput{
		Denomination: "Otra Base", Kind: entity.LocationKindCentralBase,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCentralBase)

	// Otros tipos no tienen límite.
	_, err = uc.RegisterLocation(catalog.RegisterLocationInput{
		Denomination: "Stand Plage", Kind: entity.LocationKindStand,
	})
	assert.NoError(t, err)
}

func TestDeactivateLocation_BaseCentralProhibida(t *testing.T) {
	uc := newCatalog(t)

	base, err := uc.RegisterLocation(catalog.RegisterLocationInput{
		Denomination: "Base Central", Kind: entity.LocationKindCentralBase,
	})
	require.NoError(t, err)
	stand, err := uc.RegisterLocation(catalog.RegisterLocationInput{
		Denomination: "Stand Plage", Kind: entity.LocationKindStand,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.DeactivateLocation(base.ID), domain.ErrInvalidInput)

	require.NoError(t, uc.DeactivateLocation(stand.ID))
	got, err := uc.GetLocation(stand.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}
