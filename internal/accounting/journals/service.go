package journals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

// Service validates, creates and transitions journal entries. It is the
// sole enforcer of the balance invariant.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns the company's entries ordered by date descending.
func (s *Service) List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error) {
	return s.repo.List(ctx, companyID)
}

// Get returns one entry with lines, accounts and originating invoice.
func (s *Service) Get(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return s.repo.Get(ctx, companyID, entryID)
}

// Create validates the candidate entry, allocates the next display
// number and persists the entry with all its lines as one atomic unit.
// Each call allocates a fresh number; the operation is not idempotent.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, input EntryInput) (JournalEntry, error) {
	if input.Type == "" {
		input.Type = EntryTypeManual
	}
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	entryID := uuid.New()
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		accountIDs := make([]uuid.UUID, 0, len(input.Lines))
		seen := make(map[uuid.UUID]struct{}, len(input.Lines))
		for _, line := range input.Lines {
			if _, ok := seen[line.AccountID]; ok {
				continue
			}
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
		count, err := tx.CountCompanyAccounts(ctx, companyID, accountIDs)
		if err != nil {
			return err
		}
		if count != len(accountIDs) {
			return shared.ErrAccountNotFound
		}
		number, err := tx.NextNumber(ctx, companyID)
		if err != nil {
			return err
		}
		entry := JournalEntry{
			ID:          entryID,
			CompanyID:   companyID,
			Number:      number,
			Date:        input.Date,
			Description: input.Description,
			Type:        input.Type,
			Status:      EntryStatusDraft,
			InvoiceID:   input.InvoiceID,
		}
		if err := tx.InsertEntry(ctx, entry); err != nil {
			return err
		}
		return tx.InsertLines(ctx, entryID, input.Lines)
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return s.repo.Get(ctx, companyID, entryID)
}

// Post transitions a draft entry to CONTABILIZADO. The balance was
// already validated at creation and entries are immutable after it, so
// only the state is checked here.
func (s *Service) Post(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return s.transition(ctx, companyID, entryID, EntryStatusDraft, EntryStatusPosted)
}

// Void transitions a posted entry to ANULADO. Drafts cannot be voided;
// neither transition has a way back.
func (s *Service) Void(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return s.transition(ctx, companyID, entryID, EntryStatusPosted, EntryStatusVoided)
}

func (s *Service) transition(ctx context.Context, companyID, entryID uuid.UUID, from, to EntryStatus) (JournalEntry, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetForUpdate(ctx, companyID, entryID)
		if err != nil {
			return err
		}
		if current.Status != from {
			return shared.ErrInvalidStatus
		}
		return tx.UpdateStatus(ctx, companyID, entryID, to)
	})
	if err != nil {
		return JournalEntry{}, err
	}
	return s.repo.Get(ctx, companyID, entryID)
}
