package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corebank/internal/adapters/persistence/models"
	"corebank/internal/config"
	"corebank/internal/core/domain"
	"corebank/internal/pkg/cryptox"
	"corebank/internal/pkg/jwt"
	"corebank/internal/pkg/password"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()

	codec, err := cryptox.New("test-encryption-secret")
	require.NoError(t, err)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-jwt-secret",
			SessionTTL: time.Hour,
		},
	}

	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	return NewAuthService(userRepo, sessionRepo, codec, cfg), userRepo, sessionRepo
}

func validSignupInput() *SignupInput {
	return &SignupInput{
		Email:       "jane@example.com",
		Password:    "Password123!",
		FirstName:   "Jane",
		LastName:    "Doe",
		PhoneNumber: "1234567890",
		DateOfBirth: "1990-01-01",
		SSN:         "123-45-6789",
		Address:     "123 Main St",
		City:        "Springfield",
		State:       "CA",
		ZipCode:     "12345",
	}
}

func TestSignup_Success(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)

	resp, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "jane@example.com", resp.User.Email)

	// The issued token resolves to the user
	user, err := svc.Resolve(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)

	// PII is stored as an envelope, never cleartext
	stored, err := userRepo.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "123-45-6789", stored.SSN)
	assert.Len(t, strings.Split(stored.SSN, ":"), 3)
	assert.NotEqual(t, "123 Main St", stored.Address)

	// Password is hashed
	assert.NotEqual(t, "Password123!", stored.Password)
	assert.True(t, password.Verify("Password123!", stored.Password))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), validSignupInput())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestSignup_WeakPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	input := validSignupInput()
	input.Password = "password123"

	_, err := svc.Signup(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestSignup_DateOfBirth(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		want error
	}{
		{"future date", fmt.Sprintf("%d-01-01", time.Now().Year()+10), domain.ErrInvalidDateOfBirth},
		{"underage", fmt.Sprintf("%d-01-01", time.Now().Year()-10), domain.ErrUnderage},
		{"malformed", "01/01/1990", domain.ErrInvalidDateOfBirth},
		{"adult", "1990-01-01", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAuthService(t)
			input := validSignupInput()
			input.DateOfBirth = tt.dob

			_, err := svc.Signup(context.Background(), input)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidateDateOfBirth_ExactBirthday(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	// Turns 18 today: accepted
	assert.NoError(t, validateDateOfBirth("2008-06-15", now))
	// Turns 18 tomorrow: still 17
	assert.ErrorIs(t, validateDateOfBirth("2008-06-16", now), domain.ErrUnderage)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{Email: "jane@example.com", Password: "WrongPass1!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{Email: "nobody@example.com", Password: "Password123!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_SecondSessionRevokesFirst(t *testing.T) {
	svc, _, sessionRepo := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)
	firstToken := signup.Token

	login, err := svc.Login(context.Background(), &LoginInput{Email: "jane@example.com", Password: "Password123!"})
	require.NoError(t, err)
	secondToken := login.Token

	// Only one live session row remains
	assert.Equal(t, 1, sessionRepo.count())

	// The first token no longer resolves; the second does
	_, err = svc.Resolve(context.Background(), firstToken)
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)

	user, err := svc.Resolve(context.Background(), secondToken)
	require.NoError(t, err)
	assert.Equal(t, signup.User.ID, user.ID)
}

func TestResolve_ExpiryBuffer(t *testing.T) {
	svc, _, sessionRepo := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)
	userID := signup.User.ID

	insertSession := func(expiresIn time.Duration) string {
		token, _, err := jwt.GenerateSessionToken(userID, "test-jti", "test-jwt-secret", time.Hour)
		require.NoError(t, err)
		require.NoError(t, sessionRepo.Replace(context.Background(), &models.Session{
			UserID:    userID,
			TokenHash: password.HashToken(token),
			ExpiresAt: time.Now().Add(expiresIn),
		}))
		return token
	}

	// Stored expiry 30s out is inside the 60s buffer: rejected
	soonToken := insertSession(30 * time.Second)
	_, err = svc.Resolve(context.Background(), soonToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	// The rejected row is gone: revoked is indistinguishable from absent
	assert.Equal(t, 0, sessionRepo.count())

	// Stored expiry 120s out is outside the buffer: accepted
	safeToken := insertSession(120 * time.Second)
	user, err := svc.Resolve(context.Background(), safeToken)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestResolve_OwnerMismatch(t *testing.T) {
	svc, _, sessionRepo := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	// A row whose owner differs from the token's user must not resolve
	token, _, err := jwt.GenerateSessionToken(signup.User.ID, "test-jti", "test-jwt-secret", time.Hour)
	require.NoError(t, err)
	require.NoError(t, sessionRepo.Replace(context.Background(), &models.Session{
		UserID:    signup.User.ID + 99,
		TokenHash: password.HashToken(token),
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)
}

func TestResolve_GarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), signup.Token))

	_, err = svc.Resolve(context.Background(), signup.Token)
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)
}

func TestProfile_DecryptsAddress(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	stored, err := userRepo.GetByID(context.Background(), signup.User.ID)
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), stored)
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", profile.Address)
}

func TestProfile_LegacyPlaintextAddress(t *testing.T) {
	svc, userRepo, _ := newTestAuthService(t)

	signup, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	// Rows written before encryption stay readable
	stored, err := userRepo.GetByID(context.Background(), signup.User.ID)
	require.NoError(t, err)
	stored.Address = "456 Legacy Ave"

	profile, err := svc.Profile(context.Background(), stored)
	require.NoError(t, err)
	assert.Equal(t, "456 Legacy Ave", profile.Address)
}
