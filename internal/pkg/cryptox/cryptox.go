package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEncryptionKey is returned when the codec is constructed without a secret.
	// Callers must treat this as fatal at startup.
	ErrNoEncryptionKey = errors.New("encryption key is not configured")

	// ErrDecryptFailed is returned when an envelope's authentication tag does not
	// verify. No partial plaintext is ever returned alongside it.
	ErrDecryptFailed = errors.New("decryption failed: data corrupted or tampered")
)

// Codec encrypts and decrypts sensitive string fields for at-rest storage.
// The stored format is "<hex-nonce>:<hex-tag>:<hex-ciphertext>" using
// AES-256-GCM with a fresh random nonce per call.
type Codec struct {
	key []byte
}

// New derives a 32-byte AES key from the configured secret via SHA-256.
// It fails when no secret is configured so the service refuses to start
// instead of silently operating with a weak or absent key.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoEncryptionKey
	}
	key := sha256.Sum256([]byte(secret))
	return &Codec{key: key[:]}, nil
}

// envelope is the parsed three-part form of an encrypted field.
type envelope struct {
	nonce      []byte
	tag        []byte
	ciphertext []byte
}

// parseEnvelope resolves stored data into an envelope, or reports that the
// data predates encryption and is legacy plaintext. The colon separator is
// not producible by hex encoding, so the three-part split is unambiguous.
func parseEnvelope(stored string) (*envelope, bool) {
	parts := strings.Split(stored, ":")
	if len(parts) != 3 {
		return nil, false
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, false
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, false
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, false
	}

	return &envelope{nonce: nonce, tag: tag, ciphertext: ciphertext}, true
}

// Encrypt seals plaintext into the envelope format. Empty input is returned
// unchanged rather than producing an envelope for nothing.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	aead, err := c.newAEAD()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)

	// Seal appends the tag to the ciphertext; store the parts separately
	ciphertext := sealed[:len(sealed)-aead.Overhead()]
	tag := sealed[len(sealed)-aead.Overhead():]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens an envelope produced by Encrypt. Input that does not match
// the three-part envelope shape is returned unchanged: plaintext rows
// written before encryption was introduced stay readable during migration.
// A well-formed envelope with a forged or corrupted tag fails with
// ErrDecryptFailed.
func (c *Codec) Decrypt(stored string) (string, error) {
	if stored == "" {
		return stored, nil
	}

	env, ok := parseEnvelope(stored)
	if !ok {
		return stored, nil
	}

	aead, err := c.newAEAD()
	if err != nil {
		return "", err
	}
	if len(env.nonce) != aead.NonceSize() {
		return "", ErrDecryptFailed
	}

	plaintext, err := aead.Open(nil, env.nonce, append(env.ciphertext, env.tag...), nil)
	if err != nil {
		return "", ErrDecryptFailed
	}

	return string(plaintext), nil
}

func (c *Codec) newAEAD() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
