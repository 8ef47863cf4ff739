package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/store"
	"github.com/emrgen/webmention/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Validate(t *testing.T) {
	db := tester.NewDB(t)
	fx := tester.SeedAccount(t, db, "alice", "alice.example")
	fx.Block(t, db, "spam.example")
	fx.Blocklist(t, db, "https://bob.example/troll")

	g := New(store.NewGormStore(db))
	target := "https://alice.example/post/1"

	tests := []struct {
		name     string
		username string
		source   string
		target   string
		wantCode string
		wantDesc string
	}{
		{name: "unknown account", username: "mallory", source: "https://bob.example/a", target: target, wantCode: mention.CodeTargetNotFound},
		{name: "self mention", username: "alice", source: target, target: target, wantCode: mention.CodeInvalidTarget},
		{name: "unparseable target", username: "alice", source: "https://bob.example/a", target: "https://[::1", wantCode: mention.CodeInvalidTarget, wantDesc: "target could not be parsed as a URL"},
		{name: "empty target host", username: "alice", source: "https://bob.example/a", target: "mailto:alice@alice.example", wantCode: mention.CodeInvalidTarget, wantDesc: "target domain was empty"},
		{name: "unparseable source", username: "alice", source: "https://[::1", target: target, wantCode: mention.CodeInvalidSource},
		{name: "blocked domain", username: "alice", source: "https://spam.example/x", target: target, wantCode: mention.CodeBlocked, wantDesc: "source domain is blocked"},
		{name: "unregistered domain", username: "alice", source: "https://bob.example/a", target: "https://unknown.example/post", wantCode: mention.CodeInvalidTarget, wantDesc: "target domain not found on this account"},
		{name: "blocked url", username: "alice", source: "https://bob.example/troll", target: target, wantCode: mention.CodeBlocked, wantDesc: "source URL is blocked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.Validate(context.Background(), tt.username, tt.source, tt.target)
			require.Error(t, err)
			assert.Nil(t, res)

			var merr *mention.Error
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.wantCode, merr.Code)
			if tt.wantDesc != "" {
				assert.Equal(t, tt.wantDesc, merr.Description)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		res, err := g.Validate(context.Background(), "alice", "https://Bob.example/reply", "https://alice.example/post/1")
		require.NoError(t, err)
		assert.Equal(t, fx.Site.ID, res.Site.ID)
		assert.Equal(t, "alice.example", res.TargetDomain)
		assert.Equal(t, "bob.example", res.SourceHost)
		assert.Equal(t, "alice", res.Site.Account.Username)
	})
}

// the guard must not touch pages or links
func TestGuard_NoSideEffects(t *testing.T) {
	db := tester.NewDB(t)
	tester.SeedAccount(t, db, "alice", "alice.example")

	_, err := New(store.NewGormStore(db)).Validate(context.Background(), "alice", "https://alice.example/p", "https://alice.example/p")
	require.Error(t, err)

	var pages, links int64
	db.Model(&model.Page{}).Count(&pages)
	db.Model(&model.Link{}).Count(&links)
	assert.Zero(t, pages)
	assert.Zero(t, links)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "https://a.example/a%20b%7Bc%7D", Escape("https://a.example/a b{c}"))
	assert.Equal(t, "https://a.example/%C3%A9", Escape("https://a.example/é"))
	assert.Equal(t, "https://a.example/a%20b?x=1#f", Escape("https://a.example/a%20b?x=1#f"))
}
