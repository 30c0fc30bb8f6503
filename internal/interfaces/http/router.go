package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gestion-pro/internal/application/auth"
	"github.com/tu-usuario/gestion-pro/internal/application/inventory"
	"github.com/tu-usuario/gestion-pro/internal/application/reports"
	"github.com/tu-usuario/gestion-pro/internal/application/sales"
	"github.com/tu-usuario/gestion-pro/internal/application/usecase"
	"github.com/tu-usuario/gestion-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	CompanyUC        *usecase.CompanyUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	CategoryUC       *usecase.CategoryUseCase
	ProductUC        *usecase.ProductUseCase
	CustomerUC       *usecase.CustomerUseCase
	SupplierUC       *usecase.SupplierUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	DocumentUC       *sales.DocumentUseCase
	PDFUC            *sales.PDFUseCase
	DashboardUC      *reports.DashboardUseCase
	ExportUC         *reports.ExportUseCase
	JWTSecret        string
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

	ventas := RequireRole(entity.RoleVendedor)
	compras := RequireRole(entity.RoleComprador)
	bodega := RequireRole(entity.RoleBodeguero, entity.RoleComprador)
	soloAdmin := RequireRole()

	// Companies (gestión de empresa: solo admin)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", soloAdmin, companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", soloAdmin, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", soloAdmin, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", soloAdmin, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", soloAdmin, productHandler.Update)

	// Customers (flujo de ventas)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", ventas, customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Suppliers (flujo de compras)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", compras, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Inventory movements
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", bodega, inventoryHandler.RegisterMovement)

	// Documentos comerciales
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.PDFUC)

	quotations := protected.Group("/quotations")
	quotations.Post("/", ventas, documentHandler.Create(entity.DocTypeQuotation))
	quotations.Get("/", documentHandler.ListTyped(entity.DocTypeQuotation))
	quotations.Post("/:id/convert", ventas, documentHandler.Convert)

	purchaseOrders := protected.Group("/purchase-orders")
	purchaseOrders.Post("/", compras, documentHandler.Create(entity.DocTypePurchaseOrder))
	purchaseOrders.Get("/", documentHandler.ListTyped(entity.DocTypePurchaseOrder))

	invoices := protected.Group("/invoices")
	invoices.Post("/", ventas, documentHandler.Create(entity.DocTypeInvoice))
	invoices.Get("/", documentHandler.ListTyped(entity.DocTypeInvoice))
	invoices.Post("/:id/delivery-note", ventas, documentHandler.CreateDeliveryNote)

	documents := protected.Group("/documents")
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Get("/:id/pdf", documentHandler.GetPDF)
	documents.Patch("/:id/status", documentHandler.UpdateStatus)

	// Reportes (financieros: solo admin)
	reportsGroup := protected.Group("/reports", soloAdmin)
	reportsHandler := NewReportsHandler(deps.DashboardUC, deps.ExportUC)
	reportsGroup.Get("/dashboard", reportsHandler.Dashboard)
	reportsGroup.Get("/documents.csv", reportsHandler.ExportDocuments)
}
