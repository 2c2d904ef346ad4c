package accounts

import (
	"context"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

// Service exposes chart-of-accounts operations scoped per company.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all accounts for the company ordered by code, with
// parents annotated for display indentation.
func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	return s.repo.List(ctx, companyID)
}

// ListMovement returns the active accounts that may receive postings.
// It defines the legal line targets for new journal entries.
func (s *Service) ListMovement(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	return s.repo.ListMovement(ctx, companyID)
}

// Get returns one account within the company scope.
func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (Account, error) {
	return s.repo.Get(ctx, companyID, id)
}

// Create validates the input and persists a new account.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, in AccountInput) (Account, error) {
	if err := in.Validate(); err != nil {
		return Account{}, err
	}
	if err := s.checkParent(ctx, companyID, in.ParentID); err != nil {
		return Account{}, err
	}
	account := Account{
		ID:              uuid.New(),
		CompanyID:       companyID,
		Code:            in.Code,
		Name:            in.Name,
		Type:            in.Type,
		Level:           in.Level,
		ParentID:        in.ParentID,
		AcceptsMovement: in.AcceptsMovement,
		Active:          in.Active,
	}
	if err := s.repo.Insert(ctx, account); err != nil {
		return Account{}, err
	}
	return s.repo.Get(ctx, companyID, account.ID)
}

// Update validates the input and rewrites the account in place.
func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, in AccountInput) (Account, error) {
	if err := in.Validate(); err != nil {
		return Account{}, err
	}
	if err := s.checkParent(ctx, companyID, in.ParentID); err != nil {
		return Account{}, err
	}
	account := Account{
		ID:              id,
		CompanyID:       companyID,
		Code:            in.Code,
		Name:            in.Name,
		Type:            in.Type,
		Level:           in.Level,
		ParentID:        in.ParentID,
		AcceptsMovement: in.AcceptsMovement,
		Active:          in.Active,
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return Account{}, err
	}
	return s.repo.Get(ctx, companyID, id)
}

// Delete removes the account. Accounts referenced by journal lines are
// protected; callers should deactivate them instead.
func (s *Service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.Delete(ctx, companyID, id)
}

// checkParent confirms the parent link stays inside the company scope.
func (s *Service) checkParent(ctx context.Context, companyID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.repo.Get(ctx, companyID, *parentID); err != nil {
		return shared.ErrAccountNotFound
	}
	return nil
}
