package auth

import "errors"

// The three IssueToken failure causes (unknown username, no password set,
// wrong password) all collapse to ErrInvalidCredentials so a caller cannot
// probe which half of the credential pair was wrong.
var (
	ErrInvalidCredentials = errors.New("invalid credentials provided")

	// token malformed, tampered or expired ("one failure kind" on decode)
	ErrInvalidToken = errors.New("not authorized to access this resource")

	// token decoded fine but its subject no longer resolves to a user
	ErrUnknownUser = errors.New("token subject could not be resolved")

	ErrUserInactive = errors.New("account is inactive")
)
