package main

import (
	"strings"

	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/auth"
	"rentpos-backend/internal/cache"
	"rentpos-backend/internal/calendar"
	"rentpos-backend/internal/config"
	"rentpos-backend/internal/customer"
	"rentpos-backend/internal/httpx"
	"rentpos-backend/internal/inventory"
	"rentpos-backend/internal/ledger"
	"rentpos-backend/internal/models"
	"rentpos-backend/internal/receipt"
	"rentpos-backend/internal/rental"
	"rentpos-backend/internal/sales"
	"rentpos-backend/internal/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newApp(cfg *config.Config, db *gorm.DB, monthCache *cache.MonthCache, log *zap.Logger) *fiber.App {
	engine := calendar.NewEngine(db, monthCache, log)
	rentals := rental.NewService(db, engine, log)
	payments := ledger.New(db, log)
	products := inventory.NewService(db, log)
	counter := sales.NewService(db, log)
	customers := customer.NewService(db)
	summary := stats.NewService(db, log)
	receipts := receipt.NewService(db, payments)

	app := fiber.New(fiber.Config{
		ErrorHandler: httpx.ErrorHandler(log),
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(db, cfg.JWTSecret))

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))

	protected.Get("/auth/me", auth.MeHandler())

	// Catalogue and availability
	protected.Get("/products", inventory.ListProductsHandler(products))
	protected.Get("/products/:id", inventory.GetProductHandler(products))
	protected.Get("/products/:id/availability", calendar.RangeAvailabilityHandler(engine))
	protected.Get("/products/:id/calendar", calendar.MonthCalendarHandler(engine))

	// Rentals
	protected.Post("/rentals", rental.CreateRentalHandler(rentals))
	protected.Get("/rentals", rental.ListRentalsHandler(rentals))
	protected.Get("/rentals/:id", rental.GetRentalHandler(rentals))
	protected.Post("/rentals/:id/return", rental.ReturnRentalHandler(rentals))
	protected.Post("/rentals/:id/cancel", rental.CancelRentalHandler(rentals))
	protected.Post("/rentals/:id/payments", ledger.ApplyPaymentHandler(payments, ledger.KindRental))
	protected.Get("/rentals/:id/payments", ledger.PaymentHistoryHandler(payments, ledger.KindRental))
	protected.Get("/rentals/:id/receipt", receipt.RentalReceiptHandler(receipts))

	// Counter transactions
	protected.Post("/transactions", sales.CreateTransactionHandler(counter))
	protected.Get("/transactions", sales.ListTransactionsHandler(counter))
	protected.Get("/transactions/:id", sales.GetTransactionHandler(counter))
	protected.Post("/transactions/:id/cancel", sales.CancelTransactionHandler(counter))
	protected.Post("/transactions/:id/payments", ledger.ApplyPaymentHandler(payments, ledger.KindTransaction))
	protected.Get("/transactions/:id/payments", ledger.PaymentHistoryHandler(payments, ledger.KindTransaction))
	protected.Get("/transactions/:id/receipt", receipt.TransactionReceiptHandler(receipts))

	// Customers
	protected.Get("/customers", customer.ListCustomersHandler(customers))
	protected.Get("/customers/phone/:phone", customer.CustomerByPhoneHandler(customers))
	protected.Get("/customers/:id", customer.GetCustomerHandler(customers))

	// Stats
	protected.Get("/stats/summary", stats.SummaryHandler(summary))
	protected.Get("/stats/payments-chart", stats.PaymentsChartHandler(summary))

	// Admin only
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Post("/users", auth.CreateUserHandler(db))
	adminRoutes.Post("/products", inventory.CreateProductHandler(products))
	adminRoutes.Put("/products/:id", inventory.UpdateProductHandler(products))
	adminRoutes.Delete("/products/:id", inventory.DeleteProductHandler(products))
	adminRoutes.Post("/products/import", inventory.ImportProductsHandler(db, log))
	adminRoutes.Post("/calendar/reconcile", rental.ReconcileCalendarHandler(rentals))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	return app
}
