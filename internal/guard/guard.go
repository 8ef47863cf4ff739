// Package guard authorizes a webmention before any network work is done.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/store"
)

// Target is what a valid webmention resolved to.
type Target struct {
	Account      *model.Account
	Site         *model.Site
	TargetDomain string
	SourceHost   string
}

type Guard struct {
	store store.AccountStore
}

func New(store store.AccountStore) *Guard {
	return &Guard{store: store}
}

// Validate runs the checks in order and stops at the first failure. The
// returned error is a *mention.Error.
func (g *Guard) Validate(ctx context.Context, username, source, target string) (*Target, error) {
	account, err := g.store.FindAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, mention.NewError(mention.CodeTargetNotFound, "")
		}
		return nil, lookupError("account", err)
	}

	if source == target {
		return nil, mention.NewError(mention.CodeInvalidTarget, "source and target are the same")
	}

	targetURL, err := Parse(target)
	if err != nil {
		return nil, mention.NewError(mention.CodeInvalidTarget, "target could not be parsed as a URL")
	}
	targetDomain := strings.ToLower(targetURL.Hostname())
	if targetDomain == "" {
		return nil, mention.NewError(mention.CodeInvalidTarget, "target domain was empty")
	}

	sourceURL, err := Parse(source)
	if err != nil {
		return nil, mention.NewError(mention.CodeInvalidSource, "source could not be parsed as a URL")
	}
	sourceHost := strings.ToLower(sourceURL.Hostname())

	_, err = g.store.FindBlock(ctx, account.ID, sourceHost)
	if err == nil {
		return nil, mention.NewError(mention.CodeBlocked, "source domain is blocked")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, lookupError("block", err)
	}

	site, err := g.store.FindSite(ctx, account.ID, targetDomain)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, mention.NewError(mention.CodeInvalidTarget, "target domain not found on this account")
		}
		return nil, lookupError("site", err)
	}
	if site.Account == nil {
		site.Account = account
	}

	_, err = g.store.FindBlocklist(ctx, site.ID, source)
	if err == nil {
		return nil, mention.NewError(mention.CodeBlocked, "source URL is blocked")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, lookupError("blocklist", err)
	}

	return &Target{
		Account:      account,
		Site:         site,
		TargetDomain: targetDomain,
		SourceHost:   sourceHost,
	}, nil
}

func lookupError(what string, err error) error {
	return mention.NewError(mention.CodeInternalError, fmt.Sprintf("%s lookup failed: %v", what, err))
}
