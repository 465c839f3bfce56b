package services

import (
	"context"
	"errors"
	"log"
	"time"

	"corebank/internal/adapters/persistence/models"
	"corebank/internal/adapters/persistence/repositories"
	"corebank/internal/config"
	"corebank/internal/core/domain"
	"corebank/internal/pkg/cryptox"
	"corebank/internal/pkg/jwt"
	"corebank/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sessionExpiryBuffer is subtracted from the stored expiry before the
// validity comparison, so a session cannot be judged valid and then expire
// mid-flight before the response is sent.
const sessionExpiryBuffer = 60 * time.Second

// minimumAge is the youngest age accepted at signup
const minimumAge = 18

// dateOfBirthLayout is the wire format for dates of birth
const dateOfBirthLayout = "2006-01-02"

// AuthService owns the authenticated-session lifecycle and user identity.
// At most one live session exists per user: issuing a new session replaces
// any previous one in the same storage transaction.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	codec       *cryptox.Codec
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	codec *cryptox.Codec,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		codec:       codec,
		cfg:         cfg,
	}
}

// SignupInput represents signup input
type SignupInput struct {
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

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Signup registers a new user and issues their first session
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*AuthResponse, error) {
	// 1. Check if email already registered
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	// 2. Validate password strength
	if !password.IsStrong(input.Password) {
		return nil, domain.ErrWeakPassword
	}

	// 3. Validate date of birth: must parse, be in the past, and yield age >= 18
	if err := validateDateOfBirth(input.DateOfBirth, time.Now()); err != nil {
		return nil, err
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Encrypt PII fields; cleartext SSN never reaches storage
	encryptedSSN, err := s.codec.Encrypt(input.SSN)
	if err != nil {
		return nil, err
	}
	encryptedAddress, err := s.codec.Encrypt(input.Address)
	if err != nil {
		return nil, err
	}

	// 6. Create user
	user := &models.User{
		Email:       input.Email,
		Password:    hashedPassword,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		DateOfBirth: input.DateOfBirth,
		SSN:         encryptedSSN,
		Address:     encryptedAddress,
		City:        input.City,
		State:       input.State,
		ZipCode:     input.ZipCode,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 7. Issue session
	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User signed up: %s (ID: %d)", user.Email, user.ID)

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Login authenticates a user and issues a new session, revoking any
// previous one.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Issue session (replaces any live session for this user)
	token, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Resolve maps a bearer token to its user, or reports the request as
// unauthenticated. A session is rejected when its signature does not verify,
// when no row backs it, when its owner does not match the token's user, or
// when its stored expiry is within the safety buffer of now.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	claims, err := jwt.ValidateSessionToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return nil, domain.ErrSessionInvalid
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, password.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}

	if session.UserID != claims.UserID {
		return nil, domain.ErrSessionInvalid
	}

	if !session.ExpiresAt.After(time.Now().Add(sessionExpiryBuffer)) {
		// The row is useless from here on; drop it so revoked == absent
		_ = s.sessionRepo.DeleteByTokenHash(ctx, session.TokenHash)
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}

	return user, nil
}

// Logout revokes the session backing the given token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.DeleteByTokenHash(ctx, password.HashToken(token)); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// Profile returns the user's profile with the address decrypted for its
// owner. The SSN is never returned.
func (s *AuthService) Profile(ctx context.Context, user *models.User) (*models.UserResponse, error) {
	address, err := s.codec.Decrypt(user.Address)
	if err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	resp.Address = address
	return resp, nil
}

// issueSession generates a signed token and persists the session row,
// deleting any prior sessions for the user in the same transaction.
func (s *AuthService) issueSession(ctx context.Context, userID uint) (string, error) {
	tokenID := uuid.New().String()

	token, expiresAt, err := jwt.GenerateSessionToken(userID, tokenID, s.cfg.JWT.Secret, s.cfg.JWT.SessionTTL)
	if err != nil {
		return "", err
	}

	session := &models.Session{
		UserID:    userID,
		TokenHash: password.HashToken(token),
		ExpiresAt: expiresAt,
	}

	if err := s.sessionRepo.Replace(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

// validateDateOfBirth checks that a date of birth parses, lies in the past
// and yields an age of at least 18 years as of now.
func validateDateOfBirth(dob string, now time.Time) error {
	birth, err := time.Parse(dateOfBirthLayout, dob)
	if err != nil {
		return domain.ErrInvalidDateOfBirth
	}

	if !birth.Before(now) {
		return domain.ErrInvalidDateOfBirth
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < minimumAge {
		return domain.ErrUnderage
	}

	return nil
}
