package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationMessage(t *testing.T) {
	subject, html := ActivationMessage("http://localhost:3000", "tok123")

	assert.Equal(t, "Account activation link", subject)
	assert.Contains(t, html, "http://localhost:3000/auth/account/activate/tok123")
}

func TestResetMessage(t *testing.T) {
	subject, html := ResetMessage("http://localhost:3000", "tok123")

	assert.Equal(t, "Password reset link", subject)
	assert.Contains(t, html, "http://localhost:3000/auth/password/reset/tok123")
}
