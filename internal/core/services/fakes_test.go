package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"corebank/internal/adapters/persistence/models"
)

// In-memory repository fakes. The fakes mirror the storage contract the
// gorm implementations provide: record lookups return
// gorm.ErrRecordNotFound, and CreateAndApply applies the balance delta
// under a lock, making the fake the serialization point the way the
// database is in production.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session // keyed by token hash
	nextID   uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Replace(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, existing := range r.sessions {
		if existing.UserID == session.UserID {
			delete(r.sessions, hash)
		}
	}
	r.nextID++
	session.ID = r.nextID
	session.CreatedAt = time.Now()
	clone := *session
	r.sessions[session.TokenHash] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[tokenHash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *session
	return &clone, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *fakeSessionRepo) DeleteAllByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, hash)
		}
	}
	return nil
}

func (r *fakeSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uint]*models.Account
	nextID   uint
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uint]*models.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *fakeAccountRepo) GetByIDAndUserID(_ context.Context, id, userID uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok || account.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *fakeAccountRepo) ListByUserID(_ context.Context, userID uint) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Account
	for _, account := range r.accounts {
		if account.UserID == userID {
			clone := *account
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) ExistsByUserIDAndType(_ context.Context, userID uint, accountType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.UserID == userID && account.AccountType == accountType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	accounts     *fakeAccountRepo
	transactions []*models.Transaction
	nextID       uint
}

func newFakeTransactionRepo(accounts *fakeAccountRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{accounts: accounts}
}

func (r *fakeTransactionRepo) CreateAndApply(_ context.Context, txn *models.Transaction) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts.mu.Lock()
	defer r.accounts.mu.Unlock()

	account, ok := r.accounts.accounts[txn.AccountID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	r.nextID++
	txn.ID = r.nextID
	txn.CreatedAt = time.Now()
	clone := *txn
	r.transactions = append(r.transactions, &clone)

	account.Balance += txn.Amount

	updated := *account
	return &updated, nil
}

func (r *fakeTransactionRepo) ListByAccountID(_ context.Context, accountID uint, offset, limit int) ([]*models.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Transaction
	for _, txn := range r.transactions {
		if txn.AccountID == accountID {
			clone := *txn
			matched = append(matched, &clone)
		}
	}

	// Newest first, id as tiebreak, same as the gorm implementation
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}
