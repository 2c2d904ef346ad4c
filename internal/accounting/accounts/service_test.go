package accounts

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

type mockRepository struct {
	accounts map[uuid.UUID]Account
	inUse    map[uuid.UUID]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		accounts: make(map[uuid.UUID]Account),
		inUse:    make(map[uuid.UUID]bool),
	}
}

func (m *mockRepository) List(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *mockRepository) ListMovement(ctx context.Context, companyID uuid.UUID) ([]Account, error) {
	var out []Account
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.AcceptsMovement && a.Active {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, companyID, id uuid.UUID) (Account, error) {
	a, ok := m.accounts[id]
	if !ok || a.CompanyID != companyID {
		return Account{}, shared.ErrAccountNotFound
	}
	return a, nil
}

func (m *mockRepository) Insert(ctx context.Context, a Account) error {
	for _, existing := range m.accounts {
		if existing.CompanyID == a.CompanyID && existing.Code == a.Code {
			return shared.ErrDuplicateCode
		}
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *mockRepository) Update(ctx context.Context, a Account) error {
	current, ok := m.accounts[a.ID]
	if !ok || current.CompanyID != a.CompanyID {
		return shared.ErrAccountNotFound
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	a, ok := m.accounts[id]
	if !ok || a.CompanyID != companyID {
		return shared.ErrAccountNotFound
	}
	if m.inUse[id] {
		return shared.ErrAccountInUse
	}
	delete(m.accounts, id)
	return nil
}

func validAccount() AccountInput {
	return AccountInput{
		Code:            "1.1.01",
		Name:            "Caja general",
		Type:            AccountTypeAsset,
		Level:           3,
		AcceptsMovement: true,
		Active:          true,
	}
}

func TestCreateAccount(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	account, err := svc.Create(context.Background(), companyID, validAccount())
	require.NoError(t, err)
	assert.Equal(t, "1.1.01", account.Code)
	assert.Equal(t, companyID, account.CompanyID)
}

func TestCreateAccountValidation(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	in := validAccount()
	in.Code = "  "
	_, err := svc.Create(context.Background(), companyID, in)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	in = validAccount()
	in.Type = "RESERVA"
	_, err = svc.Create(context.Background(), companyID, in)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	in = validAccount()
	in.Level = 6
	_, err = svc.Create(context.Background(), companyID, in)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCreateAccountDuplicateCode(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	_, err := svc.Create(context.Background(), companyID, validAccount())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), companyID, validAccount())
	assert.ErrorIs(t, err, shared.ErrDuplicateCode)

	// The same code in another company is fine.
	_, err = svc.Create(context.Background(), uuid.New(), validAccount())
	require.NoError(t, err)
}

func TestCreateAccountParentMustBelongToCompany(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	parentIn := validAccount()
	parentIn.Code = "1.1"
	parentIn.Level = 2
	parentIn.AcceptsMovement = false
	parent, err := svc.Create(context.Background(), companyID, parentIn)
	require.NoError(t, err)

	child := validAccount()
	child.ParentID = &parent.ID
	_, err = svc.Create(context.Background(), companyID, child)
	require.NoError(t, err)

	// A parent from another company is rejected.
	other := uuid.New()
	stranger := validAccount()
	stranger.Code = "2.1"
	strangerAccount, err := svc.Create(context.Background(), other, stranger)
	require.NoError(t, err)

	child = validAccount()
	child.Code = "1.1.02"
	child.ParentID = &strangerAccount.ID
	_, err = svc.Create(context.Background(), companyID, child)
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)
}

func TestDeleteAccountInUse(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	account, err := svc.Create(context.Background(), companyID, validAccount())
	require.NoError(t, err)
	repo.inUse[account.ID] = true

	err = svc.Delete(context.Background(), companyID, account.ID)
	assert.ErrorIs(t, err, shared.ErrAccountInUse)

	repo.inUse[account.ID] = false
	require.NoError(t, svc.Delete(context.Background(), companyID, account.ID))
}

func TestListMovementFiltersNonPostable(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	group := validAccount()
	group.Code = "1"
	group.Level = 1
	group.AcceptsMovement = false
	_, err := svc.Create(context.Background(), companyID, group)
	require.NoError(t, err)

	inactive := validAccount()
	inactive.Code = "1.2"
	inactive.Active = false
	_, err = svc.Create(context.Background(), companyID, inactive)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), companyID, validAccount())
	require.NoError(t, err)

	movement, err := svc.ListMovement(context.Background(), companyID)
	require.NoError(t, err)
	require.Len(t, movement, 1)
	assert.Equal(t, "1.1.01", movement[0].Code)
}
