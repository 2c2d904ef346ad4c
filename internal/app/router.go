package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quipu-erp/quipu/internal/accounting/accounts"
	"github.com/quipu-erp/quipu/internal/accounting/journals"
	"github.com/quipu-erp/quipu/internal/accounting/mappings"
	"github.com/quipu-erp/quipu/internal/auth"
	"github.com/quipu-erp/quipu/internal/catalog/customers"
	"github.com/quipu-erp/quipu/internal/catalog/products"
	"github.com/quipu-erp/quipu/internal/dashboard"
	"github.com/quipu-erp/quipu/internal/invoicing"
	"github.com/quipu-erp/quipu/internal/shared"
	"github.com/quipu-erp/quipu/internal/tenant"
	"github.com/quipu-erp/quipu/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SessionManager   *shared.SessionManager
	CompanyRepo      tenant.Repository
	AuthHandler      *auth.Handler
	AccountsHandler  *accounts.Handler
	JournalsHandler  *journals.Handler
	MappingsHandler  *mappings.Handler
	CustomersHandler *customers.Handler
	ProductsHandler  *products.Handler
	InvoicesHandler  *invoicing.Handler
	DashboardHandler *dashboard.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with Quipu defaults. Everything
// under the tenant guard requires a session with a company.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(params.Logger, params.CompanyRepo))

		r.Route("/contabilidad/cuentas", params.AccountsHandler.MountRoutes)
		r.Route("/contabilidad/asientos", params.JournalsHandler.MountRoutes)
		r.Route("/contabilidad/configuracion", params.MappingsHandler.MountRoutes)
		r.Route("/clientes", params.CustomersHandler.MountRoutes)
		r.Route("/productos", params.ProductsHandler.MountRoutes)
		r.Route("/facturas", params.InvoicesHandler.MountRoutes)
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	})

	return r
}
