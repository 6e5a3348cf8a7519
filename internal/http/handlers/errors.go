package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/open-gym/backend/internal/auth"
	"github.com/open-gym/backend/internal/domain/user"
)

type errorMapping struct {
	status      int
	code        string
	description string
}

// domainErrorTable is the one auditable place where internal failure kinds
// become wire statuses and machine codes. Note that the three IssueToken
// causes arrive here already collapsed into auth.ErrInvalidCredentials.
var domainErrorTable = []struct {
	err     error
	mapping errorMapping
}{
	{auth.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "invalid_credentials", "Invalid credentials provided."}},
	{auth.ErrInvalidToken, errorMapping{http.StatusUnauthorized, "invalid_token", "You are not authorized to access this resource."}},
	{auth.ErrUserInactive, errorMapping{http.StatusUnauthorized, "jwt_user_inactive", "Your account is inactive."}},
	{auth.ErrUnknownUser, errorMapping{http.StatusInternalServerError, "jwt_unknown_error", "An unknown error occurred while processing the token."}},
	{user.ErrNotFound, errorMapping{http.StatusNotFound, "record_not_found", "User not found"}},
	{user.ErrUsernameTaken, errorMapping{http.StatusBadRequest, "username_taken", "Username is already in use."}},
	{user.ErrEmailTaken, errorMapping{http.StatusBadRequest, "email_taken", "Email is already in use."}},
}

// RespondDomainError renders a known domain error, or the generic internal
// envelope when the error is not in the table.
func RespondDomainError(ctx *gin.Context, err error) {
	for _, row := range domainErrorTable {
		if errors.Is(err, row.err) {
			RespondError(ctx, row.mapping.status, ErrorBody{
				Code:        row.mapping.code,
				Description: row.mapping.description,
			})
			return
		}
	}

	RespondInternal(ctx, "Internal server error")
}
