package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rcabrera/facturacion-rd/internal/application/auth"
	"github.com/rcabrera/facturacion-rd/internal/application/billing"
	"github.com/rcabrera/facturacion-rd/internal/application/fiscal"
	"github.com/rcabrera/facturacion-rd/internal/application/reports"
	"github.com/rcabrera/facturacion-rd/internal/application/usecase"
	infrapdf "github.com/rcabrera/facturacion-rd/internal/infrastructure/pdf"
	"github.com/rcabrera/facturacion-rd/internal/infrastructure/postgres"
	httpRouter "github.com/rcabrera/facturacion-rd/internal/interfaces/http"
	"github.com/rcabrera/facturacion-rd/pkg/config"
	"github.com/rcabrera/facturacion-rd/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	docTypeRepo := postgres.NewDocumentTypeRepository(pool)
	rangeRepo := postgres.NewSequenceRangeRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	customerUC := billing.NewCustomerUseCase(customerRepo)

	// Módulo fiscal: registro de tipos de comprobante, secuencias NCF y
	// asignación transaccional del siguiente número.
	fiscalAdminUC := fiscal.NewAdminUseCase(docTypeRepo, rangeRepo)
	registry := fiscal.NewRegistry(docTypeRepo, rangeRepo)
	allocator := fiscal.NewAllocator(txRunner)

	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		txRunner, registry, customerRepo, invoiceRepo,
	)

	// PDF: representación impresa de la factura con su NCF
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	invoicePDFUC := billing.NewPDFUseCase(
		invoiceRepo, companyRepo, customerRepo, pdfGenerator,
	)

	report607UC := reports.NewReport607UseCase(companyRepo, customerRepo, invoiceRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación RD API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		AuthUC:        authUC,
		CustomerUC:    customerUC,
		CreateInvoice: createInvoiceUC,
		PDFUC:         invoicePDFUC,
		FiscalAdmin:   fiscalAdminUC,
		Allocator:     allocator,
		Report607:     report607UC,
		Logger:        log,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
