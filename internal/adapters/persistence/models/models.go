package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"corebank/internal/pkg/money"
)

// ============================================================
// Users & Sessions
// ============================================================

// User represents the users table. SSN and Address hold encrypted
// envelopes, never cleartext; decryption happens at the service layer.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	FirstName   string         `gorm:"size:50;not null" json:"first_name"`
	LastName    string         `gorm:"size:50;not null" json:"last_name"`
	PhoneNumber string         `gorm:"size:20" json:"phone_number"`
	DateOfBirth string         `gorm:"size:10;not null" json:"date_of_birth"`
	SSN         string         `gorm:"size:255;not null" json:"-"`
	Address     string         `gorm:"size:512" json:"-"`
	City        string         `gorm:"size:100" json:"city"`
	State       string         `gorm:"size:20" json:"state"`
	ZipCode     string         `gorm:"size:10" json:"zip_code"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO. Address is the decrypted cleartext for the
// authenticated owner; SSN is never echoed back.
type UserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	DateOfBirth string    `json:"date_of_birth"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	ZipCode     string    `json:"zip_code"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		DateOfBirth: u.DateOfBirth,
		City:        u.City,
		State:       u.State,
		ZipCode:     u.ZipCode,
		CreatedAt:   u.CreatedAt,
	}
}

// Session represents the sessions table. One live row per user: issuing a
// new session deletes the previous rows in the same transaction, and
// revocation is a plain delete.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// ============================================================
// Accounts & Transactions
// ============================================================

// Account types
const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
)

// Account statuses
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// Account represents the accounts table. Balance is integer cents;
// decimal conversion happens only at the API boundary.
type Account struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	AccountNumber string    `gorm:"uniqueIndex;size:10;not null" json:"account_number"`
	AccountType   string    `gorm:"size:10;not null" json:"account_type"`
	Balance       int64     `gorm:"not null;default:0" json:"balance"`
	Status        string    `gorm:"size:10;not null;default:'active'" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	User          User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AccountResponse DTO with the balance converted to decimal
type AccountResponse struct {
	ID            uint            `json:"id"`
	AccountNumber string          `json:"account_number"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Balance:       money.FromCents(a.Balance),
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
	}
}

// Transaction types. Deposit is the only flow implemented; the others are
// reserved for future debit flows.
const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeTransfer   = "transfer"
)

// Transaction statuses
const (
	TxStatusCompleted = "completed"
	TxStatusPending   = "pending"
	TxStatusFailed    = "failed"
)

// Transaction represents the append-only transactions table. Rows are
// never updated or deleted once created.
type Transaction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AccountID   uint       `gorm:"index;not null" json:"account_id"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	Amount      int64      `gorm:"not null" json:"amount"`
	Description string     `gorm:"size:255" json:"description"`
	Status      string     `gorm:"size:20;not null" json:"status"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	Account     Account    `gorm:"foreignKey:AccountID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionResponse DTO with the amount converted to decimal
type TransactionResponse struct {
	ID          uint            `json:"id"`
	AccountID   uint            `json:"account_id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at"`
}

func (t *Transaction) ToResponse() *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        t.Type,
		Amount:      money.FromCents(t.Amount),
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		ProcessedAt: t.ProcessedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates the core tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Session{},
		&Account{},
		&Transaction{},
	)
}
