package journals

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipu-erp/quipu/internal/accounting/shared"
)

type mockRepository struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]JournalEntry
	lines    map[uuid.UUID][]EntryLineInput
	accounts map[uuid.UUID]uuid.UUID // account id -> company id
	counters map[uuid.UUID]int64

	insertEntryErr error
	insertLinesErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		entries:  make(map[uuid.UUID]JournalEntry),
		lines:    make(map[uuid.UUID][]EntryLineInput),
		accounts: make(map[uuid.UUID]uuid.UUID),
		counters: make(map[uuid.UUID]int64),
	}
}

func (m *mockRepository) addAccount(companyID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.accounts[id] = companyID
	return id
}

func (m *mockRepository) List(ctx context.Context, companyID uuid.UUID) ([]JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []JournalEntry
	for _, e := range m.entries {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[entryID]
	if !ok || entry.CompanyID != companyID {
		return JournalEntry{}, shared.ErrEntryNotFound
	}
	for _, l := range m.lines[entryID] {
		entry.Lines = append(entry.Lines, JournalLine{AccountID: l.AccountID, Debit: l.Debit, Credit: l.Credit})
	}
	return entry, nil
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &mockTxRepo{mock: m, staged: make(map[uuid.UUID]JournalEntry), stagedLines: make(map[uuid.UUID][]EntryLineInput)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range tx.staged {
		m.entries[id] = e
	}
	for id, l := range tx.stagedLines {
		m.lines[id] = l
	}
	for id, status := range tx.statuses {
		e := m.entries[id]
		e.Status = status
		m.entries[id] = e
	}
	return nil
}

type mockTxRepo struct {
	mock        *mockRepository
	staged      map[uuid.UUID]JournalEntry
	stagedLines map[uuid.UUID][]EntryLineInput
	statuses    map[uuid.UUID]EntryStatus
}

func (t *mockTxRepo) NextNumber(ctx context.Context, companyID uuid.UUID) (string, error) {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()
	t.mock.counters[companyID]++
	return fmt.Sprintf("ASI-%06d", t.mock.counters[companyID]), nil
}

func (t *mockTxRepo) CountCompanyAccounts(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (int, error) {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()
	count := 0
	for _, id := range ids {
		if t.mock.accounts[id] == companyID {
			count++
		}
	}
	return count, nil
}

func (t *mockTxRepo) InsertEntry(ctx context.Context, entry JournalEntry) error {
	if t.mock.insertEntryErr != nil {
		return t.mock.insertEntryErr
	}
	t.staged[entry.ID] = entry
	return nil
}

func (t *mockTxRepo) InsertLines(ctx context.Context, entryID uuid.UUID, lines []EntryLineInput) error {
	if t.mock.insertLinesErr != nil {
		return t.mock.insertLinesErr
	}
	t.stagedLines[entryID] = lines
	return nil
}

func (t *mockTxRepo) GetForUpdate(ctx context.Context, companyID, entryID uuid.UUID) (JournalEntry, error) {
	return t.mock.Get(ctx, companyID, entryID)
}

func (t *mockTxRepo) UpdateStatus(ctx context.Context, companyID, entryID uuid.UUID, status EntryStatus) error {
	if t.statuses == nil {
		t.statuses = make(map[uuid.UUID]EntryStatus)
	}
	t.statuses[entryID] = status
	return nil
}

func testInput(repo *mockRepository, companyID uuid.UUID) EntryInput {
	return EntryInput{
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "Venta de servicios",
		Lines: []EntryLineInput{
			{AccountID: repo.addAccount(companyID), Debit: 230},
			{AccountID: repo.addAccount(companyID), Credit: 200},
			{AccountID: repo.addAccount(companyID), Credit: 30},
		},
	}
}

func TestCreateAssignsNumberAndDraftStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	entry, err := svc.Create(context.Background(), companyID, testInput(repo, companyID))
	require.NoError(t, err)
	assert.Equal(t, "ASI-000001", entry.Number)
	assert.Equal(t, EntryStatusDraft, entry.Status)
	assert.Equal(t, EntryTypeManual, entry.Type)
	assert.Len(t, entry.Lines, 3)

	second, err := svc.Create(context.Background(), companyID, testInput(repo, companyID))
	require.NoError(t, err)
	assert.Equal(t, "ASI-000002", second.Number)
}

func TestCreateNumbersArePerCompany(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyA := uuid.New()
	companyB := uuid.New()

	a, err := svc.Create(context.Background(), companyA, testInput(repo, companyA))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), companyB, testInput(repo, companyB))
	require.NoError(t, err)
	assert.Equal(t, "ASI-000001", a.Number)
	assert.Equal(t, "ASI-000001", b.Number)
}

func TestCreateConcurrentNumbersAreDistinct(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	const n = 20
	inputs := make([]EntryInput, n)
	for i := range inputs {
		inputs[i] = testInput(repo, companyID)
	}

	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(in EntryInput) {
			defer wg.Done()
			entry, err := svc.Create(context.Background(), companyID, in)
			if err == nil {
				numbers <- entry.Number
			}
		}(inputs[i])
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for num := range numbers {
		assert.False(t, seen[num], "duplicate number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestCreateRejectsForeignAccounts(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()
	other := uuid.New()

	in := testInput(repo, companyID)
	in.Lines[1].AccountID = repo.addAccount(other)
	_, err := svc.Create(context.Background(), companyID, in)
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)
	assert.Empty(t, repo.entries)
}

func TestCreateRollsBackOnLineFailure(t *testing.T) {
	repo := newMockRepository()
	repo.insertLinesErr = errors.New("disk full")
	svc := NewService(repo)
	companyID := uuid.New()

	_, err := svc.Create(context.Background(), companyID, testInput(repo, companyID))
	require.Error(t, err)
	assert.Empty(t, repo.entries, "a failed create must persist nothing")
}

func TestCreateRejectsUnbalancedBeforeTouchingStorage(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	in := testInput(repo, companyID)
	in.Lines[0].Debit = 999
	_, err := svc.Create(context.Background(), companyID, in)
	assert.ErrorIs(t, err, shared.ErrUnbalanced)
	assert.Zero(t, repo.counters[companyID], "validation failures must not consume numbers")
}

func TestPostAndVoidLifecycle(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	entry, err := svc.Create(context.Background(), companyID, testInput(repo, companyID))
	require.NoError(t, err)

	posted, err := svc.Post(context.Background(), companyID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, EntryStatusPosted, posted.Status)

	// Posting twice is rejected.
	_, err = svc.Post(context.Background(), companyID, entry.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)

	voided, err := svc.Void(context.Background(), companyID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, EntryStatusVoided, voided.Status)

	// Voided entries are terminal.
	_, err = svc.Post(context.Background(), companyID, entry.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
	_, err = svc.Void(context.Background(), companyID, entry.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestVoidRequiresPostedEntry(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()

	entry, err := svc.Create(context.Background(), companyID, testInput(repo, companyID))
	require.NoError(t, err)

	_, err = svc.Void(context.Background(), companyID, entry.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestTransitionsAreCompanyScoped(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	companyID := uuid.New()
	intruder := uuid.New()

	entry, err := svc.Create(context.Background(), companyID, testInput(repo, companyID))
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), intruder, entry.ID)
	assert.ErrorIs(t, err, shared.ErrEntryNotFound)
	_, err = svc.Post(context.Background(), intruder, entry.ID)
	assert.ErrorIs(t, err, shared.ErrEntryNotFound)
}
