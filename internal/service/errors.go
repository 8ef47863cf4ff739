package service

import "github.com/emrgen/webmention/internal/mention"

var (
	// ErrNoResult is reported when the resolver answered without data.
	ErrNoResult = mention.NewError(mention.CodeInvalidSource, "Error retrieving source. No result returned from XRay.")
	// ErrNoAccessToken is reported when the token exchange returned nothing.
	ErrNoAccessToken = mention.NewError(mention.CodeAccessTokenError, "Error obtaining an access token, no access token returned.")
)
