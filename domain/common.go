package domain

import (
	"errors"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageUnauthorized         = "unauthorized"
	MessageRouteNotFound        = "route not found"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrUnauthorized   = errors.New("unauthorized")
)

type (
	UserSummary struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
)
