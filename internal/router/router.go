package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexbart/Church-management/internal/audit"
	"github.com/alexbart/Church-management/internal/auth"
	"github.com/alexbart/Church-management/internal/expense"
	"github.com/alexbart/Church-management/internal/reports"
	"github.com/alexbart/Church-management/internal/revenue"
	"github.com/alexbart/Church-management/internal/types"
	"github.com/alexbart/Church-management/internal/users"
)

type Router struct {
	AuthHandler    *users.AuthHandler
	UserHandler    *users.Handler
	TypeHandler    *types.Handler
	RevenueHandler *revenue.Handler
	ExpenseHandler *expense.Handler
	ReportHandler  *reports.Handler
	AuditHandler   *audit.Handler

	AuthMW      fiber.Handler
	RateLimitMW fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	adminOnly := auth.RequireRoles(auth.RoleAdmin)
	finance := auth.RequireRoles(auth.RoleAdmin, auth.RolePastor)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/api/auth/register", r.RateLimitMW, r.AuthHandler.Register)
	app.Post("/api/auth/login", r.RateLimitMW, r.AuthHandler.Login)
	app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)

	app.Get("/api/users", r.AuthMW, adminOnly, r.UserHandler.List)
	app.Get("/api/users/:id", r.AuthMW, adminOnly, r.UserHandler.Get)
	app.Post("/api/users", r.AuthMW, adminOnly, r.UserHandler.Create)
	app.Put("/api/users/:id", r.AuthMW, adminOnly, r.UserHandler.Update)
	app.Delete("/api/users/:id", r.AuthMW, adminOnly, r.UserHandler.Delete)

	app.Get("/api/transaction-types", r.AuthMW, r.TypeHandler.List)
	app.Get("/api/transaction-types/:id", r.AuthMW, r.TypeHandler.Get)
	app.Post("/api/transaction-types", r.AuthMW, finance, r.TypeHandler.Create)
	app.Put("/api/transaction-types/:id", r.AuthMW, finance, r.TypeHandler.Update)
	app.Delete("/api/transaction-types/:id", r.AuthMW, finance, r.TypeHandler.Delete)

	app.Get("/api/revenues", r.AuthMW, r.RevenueHandler.List)
	app.Get("/api/revenues/:id", r.AuthMW, r.RevenueHandler.Get)
	app.Post("/api/revenues", r.AuthMW, finance, r.RevenueHandler.Create)
	app.Put("/api/revenues/:id", r.AuthMW, finance, r.RevenueHandler.Update)
	app.Delete("/api/revenues/:id", r.AuthMW, finance, r.RevenueHandler.Delete)

	app.Get("/api/expenses", r.AuthMW, r.ExpenseHandler.List)
	app.Get("/api/expenses/:id", r.AuthMW, r.ExpenseHandler.Get)
	app.Post("/api/expenses", r.AuthMW, finance, r.ExpenseHandler.Create)
	app.Put("/api/expenses/:id", r.AuthMW, finance, r.ExpenseHandler.Update)
	app.Delete("/api/expenses/:id", r.AuthMW, finance, r.ExpenseHandler.Delete)
	app.Post("/api/expenses/:id/approve", r.AuthMW, finance, r.ExpenseHandler.Approve)
	app.Post("/api/expenses/:id/reject", r.AuthMW, finance, r.ExpenseHandler.Reject)

	app.Get("/api/reports/summary", r.AuthMW, r.ReportHandler.Summary)
	app.Get("/api/reports/export/excel", r.AuthMW, r.ReportHandler.ExportExcel)
	app.Get("/api/reports/export/pdf", r.AuthMW, r.ReportHandler.ExportPDF)
	app.Post("/api/reports/import/revenues", r.AuthMW, finance, r.ReportHandler.ImportRevenues)
	app.Post("/api/reports/import/expenses", r.AuthMW, finance, r.ReportHandler.ImportExpenses)

	app.Get("/api/audit-logs", r.AuthMW, adminOnly, r.AuditHandler.List)
}
