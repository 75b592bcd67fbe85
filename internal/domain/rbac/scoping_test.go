package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
)

func TestCapabilities_PorRol(t *testing.T) {
	assert.True(t, HasCapability(entity.RoleWarehouseStaff, CapOpsDraft))
	assert.False(t, HasCapability(entity.RoleWarehouseStaff, CapOpsValidate))
	assert.False(t, HasCapability(entity.RoleWarehouseStaff, CapAuditRead))

	assert.True(t, HasCapability(entity.RoleInventoryManager, CapOpsValidate))
	assert.True(t, HasCapability(entity.RoleInventoryManager, CapOpsApprove))
	assert.True(t, HasCapability(entity.RoleInventoryManager, CapProductsWrite))

	// El comodín de admin cubre todo, incluso capacidades futuras.
	assert.True(t, HasCapability(entity.RoleAdmin, CapOpsValidate))
	assert.True(t, HasCapability(entity.RoleAdmin, "algo.nuevo"))
}

func TestCapabilities_RolDesconocidoDegradaAStaff(t *testing.T) {
	assert.True(t, HasCapability("rol-raro", CapOpsDraft))
	assert.False(t, HasCapability("rol-raro", CapOpsValidate))
}

func TestHasAnyCapability(t *testing.T) {
	assert.True(t, HasAnyCapability(entity.RoleWarehouseStaff, CapOpsValidate, CapOpsDraft))
	assert.False(t, HasAnyCapability(entity.RoleWarehouseStaff, CapOpsValidate, CapAuditRead))
}

func staffWith(warehouses ...string) *entity.User {
	return &entity.User{ID: "u1", Role: entity.RoleWarehouseStaff, AllowedWarehouseIDs: warehouses}
}

func TestScoping_AdminSinRestriccion(t *testing.T) {
	p := ScopingPolicy{RequireMembership: true}
	admin := &entity.User{ID: "a1", Role: entity.RoleAdmin}

	assert.Nil(t, p.AllowedWarehouses(admin), "nil = todas las bodegas")
	assert.True(t, p.CanAccessWarehouse(admin, "cualquiera"))
}

func TestScoping_ModoLegacySinBodegasPermiteTodo(t *testing.T) {
	p := ScopingPolicy{RequireMembership: false}
	user := staffWith()

	assert.Nil(t, p.AllowedWarehouses(user))
	assert.True(t, p.CanAccessWarehouse(user, "wh-1"))
}

func TestScoping_ModoEstrictoSinBodegasBloqueaTodo(t *testing.T) {
	p := ScopingPolicy{RequireMembership: true}
	user := staffWith()

	allowed := p.AllowedWarehouses(user)
	assert.NotNil(t, allowed)
	assert.Empty(t, allowed)
	assert.False(t, p.CanAccessWarehouse(user, "wh-1"))
}

func TestScoping_ListaBlancaFiltra(t *testing.T) {
	p := ScopingPolicy{RequireMembership: true}
	user := staffWith("wh-1", "wh-2")

	assert.True(t, p.CanAccessWarehouse(user, "wh-1"))
	assert.False(t, p.CanAccessWarehouse(user, "wh-3"))
}

func TestScoping_TrasladoVisiblePorOrigenODestino(t *testing.T) {
	p := ScopingPolicy{RequireMembership: true}
	doc := &entity.Document{
		Kind:        entity.KindTransfer,
		WarehouseID: "wh-origen",
		Transfer:    &entity.TransferData{ToWarehouseID: "wh-destino"},
	}

	assert.True(t, p.CanAccessDocument(staffWith("wh-origen"), doc))
	assert.True(t, p.CanAccessDocument(staffWith("wh-destino"), doc))
	assert.False(t, p.CanAccessDocument(staffWith("wh-otra"), doc))
}

func TestScoping_FilterWarehouses(t *testing.T) {
	p := ScopingPolicy{RequireMembership: true}
	user := staffWith("wh-1", "wh-2")

	// Sin filtro pedido: devuelve la lista blanca.
	assert.ElementsMatch(t, []string{"wh-1", "wh-2"}, p.FilterWarehouses(user, nil))

	// Intersección con lo pedido.
	assert.Equal(t, []string{"wh-2"}, p.FilterWarehouses(user, []string{"wh-2", "wh-9"}))

	// Pedido totalmente fuera de la lista blanca: vacío no-nil.
	out := p.FilterWarehouses(user, []string{"wh-9"})
	assert.NotNil(t, out)
	assert.Empty(t, out)

	// Admin: lo pedido pasa tal cual.
	admin := &entity.User{ID: "a1", Role: entity.RoleAdmin}
	assert.Equal(t, []string{"wh-9"}, p.FilterWarehouses(admin, []string{"wh-9"}))
	assert.Nil(t, p.FilterWarehouses(admin, nil))
}
