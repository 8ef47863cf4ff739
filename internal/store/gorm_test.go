package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seed(t *testing.T, db *gorm.DB) *tester.Fixture {
	name := uuid.NewString()[:8]
	return tester.SeedAccount(t, db, name, name+".example")
}

func TestGormStore_FindOrCreatePage(t *testing.T) {
	db := tester.TestDB()
	s := NewGormStore(db)
	f := seed(t, db)
	href := "https://" + f.Site.Domain + "/post/1"

	page, created, err := s.FindOrCreatePage(context.TODO(), f.Site, href)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, page.ID)
	assert.Equal(t, f.Account.ID, page.AccountID)

	again, created, err := s.FindOrCreatePage(context.TODO(), f.Site, href)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, page.ID, again.ID)

	page.Name = "Post"
	page.Type = model.PageTypeEntry
	require.NoError(t, s.UpdatePage(context.TODO(), page))
	found, err := s.FindPage(context.TODO(), f.Site.ID, href)
	require.NoError(t, err)
	assert.Equal(t, "Post", found.Name)
}

func TestGormStore_UpsertLink(t *testing.T) {
	db := tester.TestDB()
	s := NewGormStore(db)
	f := seed(t, db)
	page, _, err := s.FindOrCreatePage(context.TODO(), f.Site, "https://"+f.Site.Domain+"/post/1")
	require.NoError(t, err)

	link := &model.Link{
		PageID:    page.ID,
		Href:      "https://bob.example/reply",
		SiteID:    f.Site.ID,
		AccountID: f.Account.ID,
		Verified:  true,
		Type:      "reply",
		IsDirect:  true,
	}
	first, err := s.UpsertLink(context.TODO(), link)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	link.Type = "like"
	link.IsDirect = false
	second, err := s.UpsertLink(context.TODO(), link)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "like", second.Type)
	assert.False(t, second.IsDirect)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	links, err := s.ListLinks(context.TODO(), page.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	err = s.Transaction(context.TODO(), func(tx Store) error {
		found, err := tx.FindLink(context.TODO(), page.ID, link.Href)
		if err != nil {
			return err
		}
		return tx.DeleteLink(context.TODO(), found)
	})
	require.NoError(t, err)

	_, err = s.FindLink(context.TODO(), page.ID, link.Href)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Lookups(t *testing.T) {
	db := tester.TestDB()
	s := NewGormStore(db)
	f := seed(t, db)
	f.Block(t, db, "spam.example")
	f.Blocklist(t, db, "https://troll.example/post")

	account, err := s.FindAccountByUsername(context.TODO(), f.Account.Username)
	require.NoError(t, err)
	assert.Equal(t, f.Account.ID, account.ID)

	_, err = s.FindAccountByUsername(context.TODO(), "missing-"+f.Account.Username)
	assert.ErrorIs(t, err, ErrNotFound)

	site, err := s.FindSite(context.TODO(), account.ID, f.Site.Domain)
	require.NoError(t, err)
	require.NotNil(t, site.Account)
	assert.Equal(t, account.Username, site.Account.Username)

	_, err = s.FindBlock(context.TODO(), account.ID, "spam.example")
	assert.NoError(t, err)
	_, err = s.FindBlock(context.TODO(), account.ID, "ok.example")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindBlocklist(context.TODO(), site.ID, "https://troll.example/post")
	assert.NoError(t, err)
}

func TestGormStore_FindDebug(t *testing.T) {
	db := tester.TestDB()
	s := NewGormStore(db)
	domain := uuid.NewString()[:8] + ".example"
	require.NoError(t, db.Create(&model.Debug{Domain: domain, Enabled: true}).Error)

	_, err := s.FindDebug(context.TODO(), "https://"+domain+"/a", domain, false)
	assert.NoError(t, err)
	_, err = s.FindDebug(context.TODO(), "https://"+domain+"/a", domain, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Postgres(t *testing.T) {
	if os.Getenv("WEBMENTION_INTEGRATION") == "" {
		t.Skip("set WEBMENTION_INTEGRATION to run against docker")
	}

	services, err := tester.SetupDocker()
	require.NoError(t, err)
	defer services.Purge()

	s := NewGormStore(services.DB)
	f := seed(t, services.DB)
	page, _, err := s.FindOrCreatePage(context.TODO(), f.Site, "https://"+f.Site.Domain+"/post/1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpsertLink(context.TODO(), &model.Link{
				PageID:    page.ID,
				Href:      "https://bob.example/reply",
				SiteID:    f.Site.ID,
				AccountID: f.Account.ID,
				Verified:  true,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	links, err := s.ListLinks(context.TODO(), page.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}
