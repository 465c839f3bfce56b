package repositories

import (
	"context"

	"corebank/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository defines session repository interface.
// Replace enforces the single-active-session policy at the storage layer.
type SessionRepository interface {
	Replace(ctx context.Context, session *models.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
}

// AccountRepository defines account repository interface
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByIDAndUserID(ctx context.Context, id, userID uint) (*models.Account, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Account, error)
	ExistsByUserIDAndType(ctx context.Context, userID uint, accountType string) (bool, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
}

// TransactionRepository defines the ledger's transaction repository interface.
// CreateAndApply inserts the transaction row and applies its amount to the
// owning account's balance as a storage-layer delta in one unit of work.
type TransactionRepository interface {
	CreateAndApply(ctx context.Context, txn *models.Transaction) (*models.Account, error)
	ListByAccountID(ctx context.Context, accountID uint, offset, limit int) ([]*models.Transaction, int64, error)
}
