package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/webmention/internal/guard"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/mf2"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/notify"
	"github.com/emrgen/webmention/internal/store"
	"github.com/emrgen/webmention/internal/xray"
	"github.com/sirupsen/logrus"
)

// transition moves the (page, source) link to the state the resolver
// reported: verified when the source links to the target, gone when it
// says it no longer does.
func (w *WebmentionService) transition(ctx context.Context, req *mention.Request, target *guard.Target, page *model.Page, data xray.PostData, err error) *outcome {
	if err != nil {
		var xerr *xray.Error
		if !errors.As(err, &xerr) {
			return failure(mention.NewError(mention.CodeInvalidSource, fmt.Sprintf("Error retrieving source: %v", err)))
		}
		if xerr.Code != xray.ErrCodeNoLinkFound {
			return failure(mention.NewError(xerr.Code, xerr.Description))
		}
		return w.retract(ctx, req, target, page, xerr)
	}

	if data == nil {
		return failure(ErrNoResult)
	}

	return w.verify(ctx, req, target, page, data)
}

// retract deletes the link when one existed. Without a prior link the
// resolver error is the result.
func (w *WebmentionService) retract(ctx context.Context, req *mention.Request, target *guard.Target, page *model.Page, xerr *xray.Error) *outcome {
	var existing *model.Link
	err := w.store.Transaction(ctx, func(tx store.Store) error {
		link, err := tx.FindLink(ctx, page.ID, req.Source)
		if err != nil {
			return err
		}
		existing = link
		return tx.DeleteLink(ctx, link)
	})
	if errors.Is(err, store.ErrNotFound) {
		return failure(mention.NewError(xerr.Code, xerr.Description))
	}
	if err != nil {
		return failure(mention.NewError(mention.CodeInternalError, fmt.Sprintf("link delete failed: %v", err)))
	}

	w.bestEffort("notify deleted", func() error {
		return w.notifier.Deleted(ctx, notify.Event{
			Site:    target.Site,
			Source:  req.Source,
			Target:  req.Target,
			Private: req.IsPrivate(),
		})
	})

	return &outcome{code: mention.CodeDeleted, private: existing.IsPrivate}
}

// verify fills the link from data, stores it and fans it out.
func (w *WebmentionService) verify(ctx context.Context, req *mention.Request, target *guard.Target, page *model.Page, data xray.PostData) *outcome {
	link := &model.Link{
		PageID:       page.ID,
		Href:         req.Source,
		SiteID:       target.Site.ID,
		AccountID:    target.Account.ID,
		Domain:       target.SourceHost,
		Verified:     true,
		IsPrivate:    req.IsPrivate(),
		Token:        req.Token,
		Protocol:     req.Protocol,
		EndpointType: req.EndpointType,
	}

	mf2.ApplyAuthor(data, link, target.Site, w.avatars)
	if err := mf2.ApplyContent(data, link); err != nil {
		logrus.Warnf("partial content for %s: %v", req.Source, err)
	}
	link.Type, link.IsDirect = mf2.Classify(data, req.Target)

	saved, err := w.store.UpsertLink(ctx, link)
	if err != nil {
		return failure(mention.NewError(mention.CodeInternalError, fmt.Sprintf("link save failed: %v", err)))
	}

	post := mf2.BuildJF2(saved, req.Target)

	w.bestEffort("notify verified", func() error {
		return w.notifier.Verified(ctx, notify.Event{
			Site:    target.Site,
			Link:    saved,
			Source:  req.Source,
			Target:  req.Target,
			Private: saved.IsPrivate,
			Post:    post,
		})
	})

	if w.archive != nil && w.archive.Enabled(target.Account) {
		w.bestEffort("archive", func() error {
			return w.archive.Send(ctx, target.Account, data, req.Source, req.Target)
		})
	}

	w.capture(ctx, captureSuccess, req, target.TargetDomain, data, nil)

	return &outcome{code: mention.CodeSuccess, link: saved, private: saved.IsPrivate, data: post}
}
