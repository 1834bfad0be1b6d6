package mail

import "fmt"

// ActivationMessage builds the account-activation email. The link carries
// the pending-signup token; no account exists until it is followed.
func ActivationMessage(clientURL string, token string) (subject string, html string) {
	subject = "Account activation link"
	html = fmt.Sprintf(`
      <p>Please use the following link to activate your account</p>
      <p>%s/auth/account/activate/%s</p>
      <hr />
      <p>This email may contain sensitive information</p>
      <p>https://seoblog.com</p>
    `, clientURL, token)
	return subject, html
}

// ResetMessage builds the password-reset email.
func ResetMessage(clientURL string, token string) (subject string, html string) {
	subject = "Password reset link"
	html = fmt.Sprintf(`
      <p>Please use the following link to reset your password</p>
      <p>%s/auth/password/reset/%s</p>
      <hr />
      <p>This email may contain sensitive information</p>
      <p>https://seoblog.com</p>
    `, clientURL, token)
	return subject, html
}
