package handlers

import (
	"errors"

	"corebank/internal/adapters/persistence/models"
	"corebank/internal/core/domain"
	"corebank/internal/core/services"
	"corebank/internal/pkg/instrument"
	"corebank/internal/pkg/money"
	"corebank/internal/pkg/pagination"
	"corebank/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account and ledger endpoints
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents account creation request body
type CreateAccountRequest struct {
	AccountType string `json:"account_type"`
}

// FundRequest represents funding request body. Amount is decimal at the
// API boundary; conversion to cents happens once, in the service.
type FundRequest struct {
	Amount        decimal.Decimal          `json:"amount"`
	FundingSource instrument.FundingSource `json:"funding_source"`
}

// CreateAccount handles account creation
// @Summary Create account
// @Description Open a checking or savings account for the authenticated user
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAccountRequest true "Account type"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.AccountType != models.AccountTypeChecking && req.AccountType != models.AccountTypeSavings {
		return response.BadRequest(c, "Account type must be checking or savings")
	}

	account, err := h.accountService.CreateAccount(c.Context(), userID, req.AccountType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountTypeExists):
			return response.Conflict(c, "You already have a "+req.AccountType+" account")
		default:
			return response.InternalServerError(c, "Failed to create account")
		}
	}

	return response.Created(c, "Account created successfully", account)
}

// ListAccounts handles account listing
// @Summary List accounts
// @Description List all accounts owned by the authenticated user
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	accounts, err := h.accountService.ListAccounts(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	return response.Success(c, "", accounts)
}

// Fund handles account funding
// @Summary Fund account
// @Description Deposit money into an account from a card or bank funding source
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param body body FundRequest true "Amount and funding source"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id}/fund [post]
func (h *AccountHandler) Fund(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	accountID, err := c.ParamsInt("id")
	if err != nil || accountID < 1 {
		return response.BadRequest(c, "Invalid account ID")
	}

	var req FundRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.accountService.Fund(c.Context(), userID, uint(accountID), req.Amount, req.FundingSource)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, domain.ErrAccountNotActive):
			return response.BadRequest(c, "Account is not active")
		case errors.Is(err, money.ErrAmountTooSmall):
			return response.BadRequest(c, "Amount must be at least 0.01")
		case errors.Is(err, instrument.ErrInvalidCardNumber):
			return response.BadRequest(c, "Card number failed checksum or length validation")
		case errors.Is(err, instrument.ErrRoutingNumberRequired):
			return response.BadRequest(c, "Routing number is required for bank transfers")
		case errors.Is(err, instrument.ErrUnknownSourceType):
			return response.BadRequest(c, "Funding source type must be card or bank")
		default:
			return response.InternalServerError(c, "Failed to fund account")
		}
	}

	return response.Success(c, "Account funded successfully", result)
}

// ListTransactions handles transaction listing
// @Summary List transactions
// @Description List an account's transactions, newest first
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /accounts/{id}/transactions [get]
func (h *AccountHandler) ListTransactions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	accountID, err := c.ParamsInt("id")
	if err != nil || accountID < 1 {
		return response.BadRequest(c, "Invalid account ID")
	}

	params := pagination.GetParams(c)

	transactions, total, err := h.accountService.ListTransactions(c.Context(), userID, uint(accountID), params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		default:
			return response.InternalServerError(c, "Failed to list transactions")
		}
	}

	return response.Success(c, "", pagination.NewResponse(transactions, params, total))
}
