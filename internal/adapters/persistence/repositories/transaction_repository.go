package repositories

import (
	"context"

	"corebank/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// CreateAndApply inserts the transaction row and increments the owning
// account's balance by the transaction amount in one database transaction.
// The increment is a storage-layer delta (`balance = balance + ?`), never a
// read-modify-write, so concurrent deposits against the same account cannot
// lose an update. The refreshed account is read back after the increment.
func (r *transactionRepository) CreateAndApply(ctx context.Context, txn *models.Transaction) (*models.Account, error) {
	var account models.Account

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).
			Where("id = ?", txn.AccountID).
			UpdateColumn("balance", gorm.Expr("balance + ?", txn.Amount)).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", txn.AccountID).First(&account).Error
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// ListByAccountID lists transactions for an account, newest first. Ties on
// created_at break by descending id so rows inserted within the same clock
// tick still sort deterministically.
func (r *transactionRepository) ListByAccountID(ctx context.Context, accountID uint, offset, limit int) ([]*models.Transaction, int64, error) {
	var transactions []*models.Transaction
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
