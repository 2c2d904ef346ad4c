package auth

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quipu-erp/quipu/internal/shared"
	"github.com/quipu-erp/quipu/internal/tenant"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterInput groups the fields needed to open an account.
type RegisterInput struct {
	Email       string
	Password    string
	CompanyName string
	RUC         string
	Address     string
	Phone       string
}

// Register creates the user and their company in one transaction and
// returns the new user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	company := tenant.Company{
		ID:      uuid.New(),
		UserID:  user.ID,
		Name:    in.CompanyName,
		RUC:     in.RUC,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
	}
	if err := s.repo.CreateUserWithCompany(ctx, user, company); err != nil {
		return nil, err
	}
	return &user, nil
}
