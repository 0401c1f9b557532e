package identity

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrCancelled means the user abandoned an interactive sign-in.
var ErrCancelled = errors.New("sign-in cancelled")

// ErrFederatedUnavailable means no federated flow is configured.
var ErrFederatedUnavailable = errors.New("federated sign-in is not configured")

// ProviderError is a failure reported by the identity provider. Message is meant for
// display.
type ProviderError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

var firebaseMessages = map[string]string{
	"EMAIL_NOT_FOUND":             "Invalid email or password.",
	"INVALID_PASSWORD":            "Invalid email or password.",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password.",
	"USER_DISABLED":               "This account has been disabled.",
	"EMAIL_EXISTS":                "An account with this email already exists.",
	"WEAK_PASSWORD":               "Password should be at least 6 characters.",
	"INVALID_EMAIL":               "The email address is badly formatted.",
	"MISSING_PASSWORD":            "Please enter your password.",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts. Please try again later.",
	"OPERATION_NOT_ALLOWED":       "This sign-in method is not enabled.",
	"TOKEN_EXPIRED":               "Your session has expired. Please sign in again.",
	"INVALID_ID_TOKEN":            "Your session has expired. Please sign in again.",
	"INVALID_REFRESH_TOKEN":       "Your session has expired. Please sign in again.",
	"USER_NOT_FOUND":              "Your session has expired. Please sign in again.",
}

// wrapError turns a Firebase/Google API failure into a ProviderError with a readable
// message. Firebase reports codes like "WEAK_PASSWORD : Password should be ...".
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCancelled) {
		return err
	}
	pe := &ProviderError{Op: op, Message: "Authentication failed. Please try again.", Err: err}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		code := gerr.Message
		if i := strings.IndexAny(code, " :"); i > 0 {
			code = code[:i]
		}
		pe.Code = code
		if msg, ok := firebaseMessages[code]; ok {
			pe.Message = msg
		} else if gerr.Message != "" {
			pe.Message = gerr.Message
		}
		return pe
	}
	pe.Message = err.Error()
	return pe
}
