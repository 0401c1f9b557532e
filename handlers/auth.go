package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"name"`
	PhotoURL    string `json:"photoUrl"`
}

// Login signs in with email and password and returns the new session.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.sessions.SignInWithCredentials(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessions.Current())
}

// Register creates an account and signs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.sessions.RegisterAccount(c.Request.Context(), req.Email, req.Password, req.DisplayName, req.PhotoURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.sessions.Current())
}

// Google runs the federated sign-in. A cancelled consent answers with the unchanged session.
func (h *Handler) Google(c *gin.Context) {
	if err := h.sessions.SignInWithFederatedProvider(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessions.Current())
}

// Logout clears the session even when the provider could not be reached.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context()); err != nil {
		requestLogger(c, h.logger).Warn("Provider sign-out failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, h.sessions.Current())
}

func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.Current())
}
