package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"seoblog/api/internal/models"
)

const (
	MinPasswordLength = 6

	saltLen    = 16
	pbkdf2Iter = 4096
	pbkdf2Len  = 32
)

var ErrPasswordTooShort = errors.New("password must be at least 6 characters")

// SetPassword derives a fresh salt and verifier for plaintext and writes
// them onto the account. The plaintext is never stored.
func SetPassword(account *models.Account, plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	account.Salt = base64.RawStdEncoding.EncodeToString(salt)
	account.PasswordHash = derive(plaintext, salt)
	return nil
}

// VerifyPassword reports whether plaintext matches the account's stored
// verifier. It has no side effects.
func VerifyPassword(account models.Account, plaintext string) bool {
	if account.Salt == "" || account.PasswordHash == "" {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(account.Salt)
	if err != nil {
		return false
	}

	computed := derive(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(account.PasswordHash)) == 1
}

func derive(plaintext string, salt []byte) string {
	key := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iter, pbkdf2Len, sha256.New)
	return hex.EncodeToString(key)
}
