package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rcabrera/facturacion-rd/internal/application/auth"
	"github.com/rcabrera/facturacion-rd/internal/application/billing"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/application/reports"
	"github.com/rcabrera/facturacion-rd/internal/application/usecase"
	"github.com/rcabrera/facturacion-rd/internal/domain/entity"
	"github.com/rcabrera/facturacion-rd/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	AuthUC        *auth.AuthUseCase
	CustomerUC    *billing.CustomerUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	PDFUC         *billing.PDFUseCase
	FiscalAdmin   *fiscal.AdminUseCase
	Allocator     *fiscal.Allocator
	Report607     *reports.Report607UseCase
	Logger        *logger.Logger
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta de tenant y consulta)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Configuración fiscal (protegido; solo admin y contador tocan secuencias)
	fiscalGroup := protected.Group("/fiscal")
	fiscalHandler := NewFiscalHandler(deps.FiscalAdmin, deps.Allocator, deps.Logger)
	fiscalAdminOnly := RequireRole(entity.RoleAdmin, entity.RoleContador)
	fiscalGroup.Post("/document-types", fiscalAdminOnly, fiscalHandler.CreateDocumentType)
	fiscalGroup.Get("/document-types", fiscalHandler.ListDocumentTypes)
	fiscalGroup.Post("/ranges", fiscalAdminOnly, fiscalHandler.CreateRange)
	fiscalGroup.Get("/ranges", fiscalHandler.ListRanges)
	fiscalGroup.Post("/ranges/:id/deactivate", fiscalAdminOnly, fiscalHandler.DeactivateRange)
	fiscalGroup.Post("/ranges/:id/allocate", fiscalHandler.Allocate)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.PDFUC, deps.Logger)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Reportes DGII (protegido; el 607 es de admin/contador)
	reportsGroup := protected.Group("/reports", RequireRole(entity.RoleAdmin, entity.RoleContador))
	reportHandler := NewReportHandler(deps.Report607)
	reportsGroup.Get("/607/:period", reportHandler.Download607)
	reportsGroup.Get("/607/:period/summary", reportHandler.Summary607)
}
