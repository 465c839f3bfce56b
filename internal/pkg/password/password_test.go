package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("Password123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123!", hash)

	assert.True(t, Verify("Password123!", hash))
	assert.False(t, Verify("wrong-password", hash))
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("token-a"), HashToken("token-a"))
	assert.NotEqual(t, HashToken("token-a"), HashToken("token-b"))
	assert.Len(t, HashToken("token-a"), 64)
}

func TestIsStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Password123!", true},
		{"Aa1!aaaa", true},
		{"password123", false}, // no uppercase, no special
		{"PASSWORD123!", false},
		{"Password!", false}, // no digit
		{"Password123", false},
		{"Aa1!", false}, // too short
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStrong(tt.password), "password %q", tt.password)
	}
}
