package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/open-gym/backend/internal/config"
	"github.com/open-gym/backend/internal/domain/user"
	"github.com/open-gym/backend/internal/http/middlewares"
	"github.com/open-gym/backend/internal/security"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id int64) (user.User, error)
	SetPassword(ctx context.Context, id int64, digest string) (user.User, error)
}

// Invalidator drops stale auth-gate cache entries after a mutation.
type Invalidator interface {
	Invalidate(username string)
}

type UsersHandler struct {
	store       UserStore
	invalidator Invalidator
	cfg         config.Config
}

func NewUsersHandler(store UserStore, invalidator Invalidator, cfg config.Config) *UsersHandler {
	return &UsersHandler{
		store:       store,
		invalidator: invalidator,
		cfg:         cfg,
	}
}

type CreateUserRequest struct {
	Username       string `json:"username" binding:"required,max=50"`
	FirstName      string `json:"first_name" binding:"required,max=100"`
	LastName       string `json:"last_name" binding:"required,max=100"`
	Email          string `json:"email" binding:"required,email,max=100"`
	Password       string `json:"password" binding:"required"`
	VerifyPassword string `json:"verify_password" binding:"required,eqfield=Password"`
}

type UpdateUserRequest struct {
	Username  string `json:"username" binding:"required,max=50"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=100"`
}

// Me returns the user resolved by the auth gate.
func (h *UsersHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondInternal(ctx, "Missing identity context")
		return
	}

	RespondData(ctx, http.StatusOK, u)
}

func (h *UsersHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	users, err := h.store.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	RespondData(ctx, http.StatusOK, users)
}

// Create inserts the row first and sets the password second: the salt is the
// server-assigned creation timestamp, which does not exist until the insert
// returns.
func (h *UsersHandler) Create(ctx *gin.Context) {
	var req CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	created, err := h.store.Create(cctx, user.CreateUserRequest{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	digest, err := security.HashPassword(h.cfg.SecretKey, req.Password, security.Salt(created.CreatedAt))

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	created, err = h.store.SetPassword(cctx, created.ID, digest)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	RespondData(ctx, http.StatusCreated, created)
}

func (h *UsersHandler) GetByID(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.store.GetByID(cctx, id)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	RespondData(ctx, http.StatusOK, u)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	var req UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// the row may be cached under its pre-update username
	prev, err := h.store.GetByID(cctx, id)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	updated, err := h.store.Update(cctx, id, user.UpdateUserRequest{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	h.invalidate(prev.Username, updated.Username)

	RespondData(ctx, http.StatusOK, updated)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	deleted, err := h.store.Delete(cctx, id)

	if err != nil {
		RespondDomainError(ctx, err)
		return
	}

	h.invalidate(deleted.Username)

	RespondData(ctx, http.StatusOK, deleted)
}

func (h *UsersHandler) invalidate(usernames ...string) {
	if h.invalidator == nil {
		return
	}

	for _, name := range usernames {
		h.invalidator.Invalidate(name)
	}
}

func idParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondError(ctx, http.StatusBadRequest, ErrorBody{
			Code:        "validation_error",
			Description: "id must be an integer",
			Fields: []FieldError{{
				Field:   "id",
				Rule:    "type",
				Message: "must be an integer",
			}},
		})

		return 0, false
	}

	return id, true
}
