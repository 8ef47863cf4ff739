// Package xray talks to the content resolver that fetches a url and returns
// its microformats as jf2, and to its token endpoint for private
// webmentions.
package xray

import (
	"context"
	"fmt"
)

// ErrCodeNoLinkFound is the resolver's signal that the source does not link
// to the target.
const ErrCodeNoLinkFound = "no_link_found"

// Error is an error reported by the resolver itself.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// ParseRequest selects what to resolve. When Target is set and
// SkipLinkCheck is false the resolver fails with no_link_found unless the
// page links to Target.
type ParseRequest struct {
	URL           string
	Target        string
	SkipLinkCheck bool
	AccessToken   string
}

// Resolver returns the post data of a url. A nil PostData with a nil error
// means the resolver returned nothing usable.
type Resolver interface {
	Parse(ctx context.Context, req ParseRequest) (PostData, error)
}

// TokenExchanger trades a private webmention code for an access token.
type TokenExchanger interface {
	AccessToken(ctx context.Context, source, code string) (string, error)
}
