package entities

import "strings"

// LoginState is a state of the login state machine
type LoginState string

const (
	LoginAwaitingCredentials LoginState = "awaiting-credentials"
	LoginCaptchaPending      LoginState = "captcha-pending"
	LoginSubmitted           LoginState = "submitted"
	LoginAuthenticated       LoginState = "authenticated"
	LoginFailed              LoginState = "failed"
)

// SessionState is what the run knows about the browser session
type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	View          string `json:"view"`
}

// IsLoginView reports whether location matches the login view signature
func IsLoginView(location, signature string) bool {
	return strings.Contains(strings.ToLower(location), strings.ToLower(signature))
}

// Credentials are the console account used to log in
type Credentials struct {
	Username string
	Password string
}
