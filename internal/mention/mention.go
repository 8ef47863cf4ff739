// Package mention holds the vocabulary shared by the webmention pipeline:
// the unit of work, its result codes and the typed rejection error.
package mention

import (
	"errors"
	"fmt"
)

// Result codes written to the status store and the statistics.
const (
	CodeSuccess          = "success"
	CodeDeleted          = "deleted"
	CodeTargetNotFound   = "target_not_found"
	CodeInvalidTarget    = "invalid_target"
	CodeInvalidSource    = "invalid_source"
	CodeBlocked          = "blocked"
	CodeAccessTokenError = "access_token_error"
	CodeNoLinkFound      = "no_link_found"
	CodeInternalError    = "internal_error"
)

// Request is one webmention to verify.
type Request struct {
	Username     string `json:"username"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	Protocol     string `json:"protocol"`
	Token        string `json:"token"`
	Code         string `json:"code,omitempty"` // set for private webmentions
	EndpointType string `json:"endpoint_type"`
}

// IsPrivate reports whether the sender supplied a verification code.
func (r *Request) IsPrivate() bool {
	return r.Code != ""
}

// Error is a terminal rejection of a webmention.
type Error struct {
	Code        string
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func NewError(code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// AsError unwraps err into a rejection, mapping anything untyped to an
// internal error.
func AsError(err error) *Error {
	var merr *Error
	if errors.As(err, &merr) {
		return merr
	}
	return NewError(CodeInternalError, err.Error())
}
