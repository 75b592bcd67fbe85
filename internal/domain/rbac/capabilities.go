package rbac

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// Capacidades con nombre otorgadas por rol. Mantener este mapa pequeño y
// estable; agregar capacidades a medida que crecen los módulos.
const (
	CapProductsRead  = "products.read"
	CapProductsWrite = "products.write"
	CapOpsRead       = "ops.read"
	CapOpsDraft      = "ops.draft"
	CapOpsApprove    = "ops.approve"
	CapOpsValidate   = "ops.validate"
	CapAuditRead     = "audit.read"

	// CapAll comodín del rol admin.
	CapAll = "*"
)

var roleCapabilities = map[string]map[string]bool{
	entity.RoleWarehouseStaff: {
		CapProductsRead: true,
		CapOpsRead:      true,
		CapOpsDraft:     true,
	},
	entity.RoleInventoryManager: {
		CapProductsRead:  true,
		CapProductsWrite: true,
		CapOpsRead:       true,
		CapOpsDraft:      true,
		CapOpsApprove:    true,
		CapOpsValidate:   true,
		CapAuditRead:     true,
	},
	entity.RoleAdmin: {
		CapAll: true,
	},
}

// Capabilities devuelve el conjunto de capacidades del rol. Rol desconocido
// o vacío degrada a warehouse_staff.
func Capabilities(role string) map[string]bool {
	if caps, ok := roleCapabilities[role]; ok {
		return caps
	}
	return roleCapabilities[entity.RoleWarehouseStaff]
}

// HasCapability indica si el rol posee la capacidad (o el comodín admin).
func HasCapability(role, capability string) bool {
	caps := Capabilities(role)
	return caps[CapAll] || caps[capability]
}

// HasAnyCapability indica si el rol posee alguna de las capacidades.
func HasAnyCapability(role string, capabilities ...string) bool {
	caps := Capabilities(role)
	if caps[CapAll] {
		return true
	}
	for _, c := range capabilities {
		if caps[c] {
			return true
		}
	}
	return false
}
