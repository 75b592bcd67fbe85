package rbac

import "github.com/tu-usuario/stockmaster-api/internal/domain/entity"

// ScopingPolicy decide cómo se comporta el scoping de bodegas cuando un
// usuario no-admin no tiene bodegas asignadas. Con RequireMembership en
// false se mantiene el comportamiento legacy (sin filtro, acceso a todo);
// en true el acceso degrada a ninguna bodega (modo estricto). El valor se
// pasa explícito en cada llamada en lugar de leerse de configuración global.
type ScopingPolicy struct {
	RequireMembership bool
}

// AllowedWarehouses devuelve la lista blanca de bodegas del usuario.
// nil significa "todas" (admin, o lista vacía en modo legacy); una lista
// vacía no-nil significa "ninguna".
func (p ScopingPolicy) AllowedWarehouses(user *entity.User) []string {
	if user == nil {
		return []string{}
	}
	if user.Role == entity.RoleAdmin {
		return nil
	}
	if len(user.AllowedWarehouseIDs) == 0 {
		if p.RequireMembership {
			return []string{}
		}
		return nil
	}
	return user.AllowedWarehouseIDs
}

// CanAccessWarehouse indica si el usuario puede ver/mutar datos de la bodega.
func (p ScopingPolicy) CanAccessWarehouse(user *entity.User, warehouseID string) bool {
	allowed := p.AllowedWarehouses(user)
	if allowed == nil {
		return true
	}
	for _, id := range allowed {
		if id == warehouseID {
			return true
		}
	}
	return false
}

// CanAccessDocument aplica el scoping sobre un documento. Los traslados son
// visibles por cualquiera de sus dos bodegas (origen o destino).
func (p ScopingPolicy) CanAccessDocument(user *entity.User, doc *entity.Document) bool {
	if doc == nil {
		return false
	}
	if p.CanAccessWarehouse(user, doc.WarehouseID) {
		return true
	}
	if doc.Kind == entity.KindTransfer && doc.Transfer != nil {
		return p.CanAccessWarehouse(user, doc.Transfer.ToWarehouseID)
	}
	return false
}

// FilterWarehouses intersecta las bodegas pedidas con la lista blanca del
// usuario. requestedIDs vacío significa "todas las visibles": devuelve la
// lista blanca tal cual (nil = sin filtro).
func (p ScopingPolicy) FilterWarehouses(user *entity.User, requestedIDs []string) []string {
	allowed := p.AllowedWarehouses(user)
	if allowed == nil {
		return requestedIDs
	}
	if len(requestedIDs) == 0 {
		return allowed
	}
	allowedSet := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}
	out := make([]string, 0, len(requestedIDs))
	for _, id := range requestedIDs {
		if allowedSet[id] {
			out = append(out, id)
		}
	}
	return out
}
