package repositories

import (
	"context"

	"corebank/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByID gets an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByIDAndUserID gets an account by ID scoped to its owner
func (r *accountRepository) GetByIDAndUserID(ctx context.Context, id, userID uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListByUserID lists all accounts owned by a user
func (r *accountRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// ExistsByUserIDAndType checks if a user already owns an account of a type
func (r *accountRepository) ExistsByUserIDAndType(ctx context.Context, userID uint, accountType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("user_id = ? AND account_type = ?", userID, accountType).
		Count(&count).Error
	return count > 0, err
}

// ExistsByAccountNumber checks if an account number is already allocated
func (r *accountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error
	return count > 0, err
}
