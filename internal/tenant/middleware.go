package tenant

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/platform/httpx"
	"github.com/quipu-erp/quipu/internal/shared"
)

// Middleware resolves the acting user's company and injects its id into
// the request context. Every protected route sits behind it, so no
// handler can run without a resolved company scope.
func Middleware(logger *slog.Logger, repo Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == "" {
				httpx.Fail(w, http.StatusUnauthorized, "No autenticado")
				return
			}
			userID, err := uuid.Parse(sess.User())
			if err != nil {
				httpx.Fail(w, http.StatusUnauthorized, "No autenticado")
				return
			}
			company, err := repo.FindByUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, ErrCompanyNotFound) {
					httpx.Fail(w, http.StatusNotFound, "Empresa no encontrada")
					return
				}
				logger.Error("resolve company", slog.Any("error", err))
				httpx.Fail(w, http.StatusInternalServerError, "Error al resolver la empresa")
				return
			}
			ctx := ContextWithCompany(r.Context(), company.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
