package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/open-gym/backend/internal/auth"
	"github.com/open-gym/backend/internal/config"
	"github.com/open-gym/backend/internal/observability"
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, creds auth.Credentials) (string, error)
}

type AuthHandler struct {
	svc  TokenIssuer
	prom *observability.Prom
}

func NewAuthHandler(svc TokenIssuer, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		svc:  svc,
		prom: prom,
	}
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) GetToken(ctx *gin.Context) {
	var req TokenRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt verification, not the lookup, dominates this deadline
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	token, err := h.svc.IssueToken(cctx, auth.Credentials{
		Username: req.Username,
		Password: req.Password,
	})

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.countToken("rejected")
			RespondDomainError(ctx, err)
			return
		}

		h.countToken("error")
		RespondInternal(ctx, "Could not issue token")
		return
	}

	h.countToken("issued")

	RespondData(ctx, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) countToken(result string) {
	if h.prom != nil {
		h.prom.TokenRequests.WithLabelValues(result).Inc()
	}
}
