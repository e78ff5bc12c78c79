package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	backend *service.Backend
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(backend *service.Backend) *AuthHandlers {
	return &AuthHandlers{
		backend: backend,
	}
}

// SignIn exchanges a signed challenge for a credential, returned as plain text
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	cred, err := h.backend.SignIn(c.Request.Context(), req.Address, core.Signature(req.Signature), req.Message)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorMsg := "authentication failed"

		switch {
		case errors.Is(err, service.ErrInvalidChallenge):
			statusCode = http.StatusBadRequest
			errorMsg = "invalid challenge"
		case errors.Is(err, tokenizer.ErrInvalidSignature):
			statusCode = http.StatusUnauthorized
			errorMsg = "invalid signature"
		}

		c.String(statusCode, errorMsg)
		return
	}

	c.String(http.StatusOK, string(cred))
}

// CheckSession answers "true" or "false"
func (h *AuthHandlers) CheckSession(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
		Hash    string `json:"hash" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	if h.backend.CheckSession(c.Request.Context(), req.Address, core.Credential(req.Hash)) {
		c.String(http.StatusOK, "true")
		return
	}

	c.String(http.StatusOK, "false")
}

// Secret returns the secret of the address in the path
func (h *AuthHandlers) Secret(c *gin.Context) {
	address := c.GetString(ctxAddress)
	cred := core.Credential(c.GetString(ctxCredential))

	secret, err := h.backend.Secret(c.Request.Context(), address, cred)
	if err != nil {
		if errors.Is(err, service.ErrSecretNotFound) {
			c.String(http.StatusNotFound, "not found")
			return
		}
		c.String(http.StatusUnauthorized, "unauthorized")
		return
	}

	c.String(http.StatusOK, secret)
}
