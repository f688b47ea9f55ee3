package errs

import "errors"

var (
	MissingAuthHeader = errors.New("authorization header missing")
	InvalidToken      = errors.New("invalid token")
	MissingUserClaim  = errors.New("token has no user claim")
	MissingPermission = errors.New("token lacks the required permission")
)
