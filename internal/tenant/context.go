package tenant

import (
	"context"

	"github.com/google/uuid"
)

type companyContextKey struct{}

// ContextWithCompany stores the resolved company id in context.
func ContextWithCompany(ctx context.Context, companyID uuid.UUID) context.Context {
	return context.WithValue(ctx, companyContextKey{}, companyID)
}

// CompanyFromContext extracts the company id placed by the middleware.
// The zero UUID means no company was resolved.
func CompanyFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(companyContextKey{}).(uuid.UUID)
	return id
}
