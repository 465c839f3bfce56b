package handlers

import (
	"errors"
	"strings"

	"corebank/internal/adapters/persistence/models"
	"corebank/internal/core/domain"
	"corebank/internal/core/services"
	"corebank/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents signup request body
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
	SSN         string `json:"ssn"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles user registration
// @Summary Register new user
// @Description Create a user and issue their first session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "Signup data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	if req.FirstName == "" || req.LastName == "" {
		return response.BadRequest(c, "First and last name are required")
	}
	if req.DateOfBirth == "" {
		return response.BadRequest(c, "Date of birth is required")
	}
	if req.SSN == "" {
		return response.BadRequest(c, "SSN is required")
	}

	input := &services.SignupInput{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    req.Password,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		DateOfBirth: strings.TrimSpace(req.DateOfBirth),
		SSN:         strings.TrimSpace(req.SSN),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		ZipCode:     strings.TrimSpace(req.ZipCode),
	}

	result, err := h.authService.Signup(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return response.Conflict(c, "Email is already registered")
		case errors.Is(err, domain.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters with uppercase, lowercase, number and special character")
		case errors.Is(err, domain.ErrInvalidDateOfBirth):
			return response.BadRequest(c, "Date of birth must be a valid past date")
		case errors.Is(err, domain.ErrUnderage):
			return response.BadRequest(c, "You must be at least 18 years old")
		default:
			return response.InternalServerError(c, "Failed to sign up")
		}
	}

	return response.Created(c, "User registered successfully", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate a user and issue a new session, revoking any previous one
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Logged in successfully", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout handles session revocation
// @Summary Logout user
// @Description Revoke the current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := c.Locals("sessionToken").(string)
	if !ok || token == "" {
		return response.Unauthorized(c, "Not authenticated")
	}

	if err := h.authService.Logout(c.Context(), token); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Description Return the authenticated user's profile with decrypted address
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	profile, err := h.authService.Profile(c.Context(), user)
	if err != nil {
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, "", profile)
}
