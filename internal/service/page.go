package service

import (
	"context"
	"fmt"

	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/mf2"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/xray"
	"github.com/sirupsen/logrus"
)

// resolvePage returns the page for target, creating it on first sight.
// A new page gets its name and type from the target document; failing to
// fetch it leaves the page bare.
func (w *WebmentionService) resolvePage(ctx context.Context, site *model.Site, target string) (*model.Page, error) {
	page, created, err := w.store.FindOrCreatePage(ctx, site, target)
	if err != nil {
		return nil, mention.NewError(mention.CodeInternalError, fmt.Sprintf("page lookup failed: %v", err))
	}
	if !created {
		return page, nil
	}

	data, err := w.resolver.Parse(ctx, xray.ParseRequest{URL: target})
	if err != nil {
		logrus.Warnf("failed to fetch page %s: %v", target, err)
		return page, nil
	}
	if data == nil {
		return page, nil
	}

	mf2.ApplyPage(data, page)
	if err := w.store.UpdatePage(ctx, page); err != nil {
		logrus.Warnf("failed to update page %s: %v", target, err)
	}

	return page, nil
}
