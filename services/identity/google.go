package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleCallbackPath = "/callback"

// GoogleFlow runs the OAuth2 authorization-code flow with PKCE against Google, catching
// the redirect on a loopback listener. The browser step is the interactive suspension.
type GoogleFlow struct {
	Config *oauth2.Config
	// OpenURL presents the consent URL to the user; by default it is logged.
	OpenURL func(consentURL string) error
	logger  *zap.Logger
}

func NewGoogleFlow(clientID, clientSecret string, redirectPort int, logger *zap.Logger) *GoogleFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &GoogleFlow{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  "http://127.0.0.1:" + strconv.Itoa(redirectPort) + googleCallbackPath,
			Scopes:       []string{"openid", "email", "profile"},
		},
		logger: logger,
	}
	f.OpenURL = func(consentURL string) error {
		f.logger.Info("Open this URL to continue with Google", zap.String("url", consentURL))
		return nil
	}
	return f
}

func (f *GoogleFlow) ProviderID() string { return "google.com" }

type callbackResult struct {
	code string
	err  error
}

// Authorize blocks until the user completes or abandons consent, or ctx ends. Both an
// "access_denied" redirect and a cancelled ctx yield ErrCancelled.
func (f *GoogleFlow) Authorize(ctx context.Context) (string, error) {
	redirect, err := parseHostPort(f.Config.RedirectURL)
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", redirect)
	if err != nil {
		return "", fmt.Errorf("google: listen for redirect: %w", err)
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	router := gin.New()
	router.GET(googleCallbackPath, func(c *gin.Context) {
		res := callbackResult{}
		switch {
		case c.Query("state") != state:
			res.err = errors.New("google: state mismatch")
		case c.Query("error") == "access_denied":
			res.err = ErrCancelled
		case c.Query("error") != "":
			res.err = fmt.Errorf("google: %s", c.Query("error"))
		default:
			res.code = c.Query("code")
		}
		select {
		case results <- res:
		default:
		}
		c.String(http.StatusOK, "You can close this window and return to StayEase.")
	})
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			f.logger.Warn("google: redirect listener stopped", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := f.Config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "select_account"))
	if err := f.OpenURL(authURL); err != nil {
		return "", fmt.Errorf("google: open consent page: %w", err)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case res = <-results:
	}
	if res.err != nil {
		return "", res.err
	}

	tok, err := f.Config.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("google: exchange code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("google: token response carried no id_token")
	}
	return idToken, nil
}

func parseHostPort(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("google: bad redirect URL %q", redirectURL)
	}
	return u.Host, nil
}
