package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"corebank/internal/adapters/persistence/models"
	"corebank/internal/adapters/persistence/repositories"
	"corebank/internal/core/domain"
	"corebank/internal/pkg/instrument"
	"corebank/internal/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// accountNumberWidth is the zero-padded width of account numbers
	accountNumberWidth = 10

	// accountNumberRange bounds the uniform random draw: [0, 1e9)
	accountNumberRange = 1_000_000_000

	// maxAccountNumberAttempts caps the retry-until-unique loop; collisions
	// are rare enough that hitting this means something is badly wrong
	maxAccountNumberAttempts = 100
)

// AccountService owns accounts and the append-only transaction ledger.
// All balance arithmetic is integer cents; amounts cross its boundary as
// decimals exactly once each way.
type AccountService struct {
	accountRepo     repositories.AccountRepository
	transactionRepo repositories.TransactionRepository
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repositories.AccountRepository,
	transactionRepo repositories.TransactionRepository,
) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// FundResult is what a successful funding request returns: the created
// transaction and the balance read back after the increment committed.
type FundResult struct {
	Transaction *models.TransactionResponse `json:"transaction"`
	NewBalance  decimal.Decimal             `json:"new_balance"`
}

// CreateAccount opens a new account for the user. A user holds at most one
// account per type.
func (s *AccountService) CreateAccount(ctx context.Context, userID uint, accountType string) (*models.AccountResponse, error) {
	// 1. Enforce one account per (user, type)
	exists, err := s.accountRepo.ExistsByUserIDAndType(ctx, userID, accountType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAccountTypeExists
	}

	// 2. Allocate a unique account number
	accountNumber, err := s.allocateAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Persist with zero balance, active status
	account := &models.Account{
		UserID:        userID,
		AccountNumber: accountNumber,
		AccountType:   accountType,
		Balance:       0,
		Status:        models.AccountStatusActive,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	log.Printf("✅ Account created: %s (%s) for user %d", account.AccountNumber, account.AccountType, userID)

	return account.ToResponse(), nil
}

// ListAccounts returns all accounts owned by the user
func (s *AccountService) ListAccounts(ctx context.Context, userID uint) ([]*models.AccountResponse, error) {
	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, account.ToResponse())
	}
	return responses, nil
}

// Fund deposits money into one of the user's accounts. The transaction row
// and the balance increment commit in one unit of work at the storage layer.
func (s *AccountService) Fund(ctx context.Context, userID, accountID uint, amount decimal.Decimal, source instrument.FundingSource) (*FundResult, error) {
	// 1. Account must exist and belong to the caller
	account, err := s.accountRepo.GetByIDAndUserID(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	// 2. Account must be active
	if !account.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	// 3. Validate the funding instrument
	if err := instrument.Validate(source); err != nil {
		return nil, err
	}

	// 4. Convert to cents; sub-minimum amounts never reach the ledger
	cents, err := money.ToCents(amount)
	if err != nil {
		return nil, err
	}

	// 5. Insert the immutable transaction row and apply the delta atomically
	now := time.Now()
	txn := &models.Transaction{
		AccountID:   account.ID,
		Type:        models.TxTypeDeposit,
		Amount:      cents,
		Description: fmt.Sprintf("Funding from %s", source.Type),
		Status:      models.TxStatusCompleted,
		ProcessedAt: &now,
	}

	updated, err := s.transactionRepo.CreateAndApply(ctx, txn)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Account %s funded: +%s (balance %s)", account.AccountNumber,
		money.FromCents(cents).StringFixed(2), money.FromCents(updated.Balance).StringFixed(2))

	return &FundResult{
		Transaction: txn.ToResponse(),
		NewBalance:  money.FromCents(updated.Balance),
	}, nil
}

// ListTransactions returns the account's ledger entries, newest first
func (s *AccountService) ListTransactions(ctx context.Context, userID, accountID uint, offset, limit int) ([]*models.TransactionResponse, int64, error) {
	// Account must exist and belong to the caller
	if _, err := s.accountRepo.GetByIDAndUserID(ctx, accountID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrAccountNotFound
		}
		return nil, 0, err
	}

	transactions, total, err := s.transactionRepo.ListByAccountID(ctx, accountID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, txn.ToResponse())
	}
	return responses, total, nil
}

// allocateAccountNumber draws uniform random 10-digit numbers until one is
// free. Uniqueness is a hard invariant, so collisions retry; the attempt cap
// guards against pathological collision rates.
func (s *AccountService) allocateAccountNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(accountNumberRange))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%0*d", accountNumberWidth, n.Int64())

		taken, err := s.accountRepo.ExistsByAccountNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", domain.ErrAccountNumberExhausted
}
