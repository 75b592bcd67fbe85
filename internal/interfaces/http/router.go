package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/auth"
	"github.com/tu-usuario/stockmaster-api/internal/application/documents"
	"github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/rbac"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	DocumentUC  *documents.WorkflowUseCase
	StockUC     *stock.QueryUseCase
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	PolicyUC    *usecase.PolicyUseCase
	UserUC      *usecase.UserUseCase
	UserRepo    repository.UserRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Documents (protegido; las capacidades finas las aplica el caso de uso)
	docs := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.UserRepo)
	docs.Post("/", documentHandler.Create)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.GetByID)
	docs.Patch("/:id/status", documentHandler.SetStatus)
	docs.Post("/:id/approve", documentHandler.Approve)
	docs.Post("/:id/validate", documentHandler.Validate)
	docs.Post("/:id/counts", documentHandler.UpdateCounts)
	docs.Post("/:id/complete-count", documentHandler.CompleteCount)

	// Stock y libro (protegido, solo lectura)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.UserRepo)
	stockGroup.Get("/", stockHandler.ListBalances)
	stockGroup.Get("/ledger", stockHandler.ListLedger)
	stockGroup.Get("/:warehouse_id/:product_id", stockHandler.GetBalance)

	// Auditoría (protegido, requiere capacidad de lectura de auditoría)
	protected.Get("/audit", RequireCapability(rbac.CapAuditRead), stockHandler.ListAudit)

	// Products (protegido; escritura solo con capacidad)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireCapability(rbac.CapProductsWrite), productHandler.Create)
	products.Put("/:id", RequireCapability(rbac.CapProductsWrite), productHandler.Update)
	products.Delete("/:id", RequireCapability(rbac.CapProductsWrite), productHandler.Delete)

	// Warehouses (protegido; escritura solo admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/bins", warehouseHandler.ListBins)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Delete)
	warehouses.Post("/:id/bins", RequireRole(entity.RoleAdmin), warehouseHandler.CreateBin)

	// Approval policies (solo admin)
	policies := protected.Group("/policies", RequireRole(entity.RoleAdmin))
	policyHandler := NewPolicyHandler(deps.PolicyUC)
	policies.Post("/", policyHandler.Create)
	policies.Get("/", policyHandler.List)
	policies.Put("/:id", policyHandler.Update)
	policies.Delete("/:id", policyHandler.Delete)

	// Users (/me para cualquiera autenticado; administración solo admin)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", RequireRole(entity.RoleAdmin), userHandler.List)
	users.Get("/:id", RequireRole(entity.RoleAdmin), userHandler.GetByID)
	users.Put("/:id/role", RequireRole(entity.RoleAdmin), userHandler.SetRole)
	users.Put("/:id/warehouses", RequireRole(entity.RoleAdmin), userHandler.SetWarehouses)
}
