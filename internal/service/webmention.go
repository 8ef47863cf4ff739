package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emrgen/webmention/internal/avatar"
	"github.com/emrgen/webmention/internal/cache"
	"github.com/emrgen/webmention/internal/compress"
	"github.com/emrgen/webmention/internal/guard"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/metrics"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/notify"
	"github.com/emrgen/webmention/internal/store"
	"github.com/emrgen/webmention/internal/xray"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators of a WebmentionService. Store, Status and
// Resolver are required.
type Deps struct {
	Store    store.Store
	Status   cache.StatusCache
	Resolver xray.Resolver
	Tokens   xray.TokenExchanger
	Notifier notify.Notifier
	Archive  *notify.Archive
	Avatars  avatar.Archiver
	// Compress encodes debug captures. Captures are off when nil.
	Compress compress.Compress
}

// NewWebmentionService creates a new WebmentionService.
func NewWebmentionService(deps Deps) *WebmentionService {
	service := &WebmentionService{
		store:    deps.Store,
		status:   deps.Status,
		guard:    guard.New(deps.Store),
		resolver: deps.Resolver,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
		archive:  deps.Archive,
		avatars:  deps.Avatars,
		compress: deps.Compress,
	}
	if service.notifier == nil {
		service.notifier = notify.Nop{}
	}

	return service
}

// WebmentionService verifies webmentions and keeps the link graph in sync
// with what sources actually say.
type WebmentionService struct {
	store    store.Store
	status   cache.StatusCache
	guard    *guard.Guard
	resolver xray.Resolver
	tokens   xray.TokenExchanger
	notifier notify.Notifier
	archive  *notify.Archive
	avatars  avatar.Archiver
	compress compress.Compress
}

// outcome is the terminal state of one run.
type outcome struct {
	code    string
	summary string
	link    *model.Link
	private bool
	data    map[string]any
}

func failure(err error) *outcome {
	merr := mention.AsError(err)
	return &outcome{code: merr.Code, summary: merr.Description}
}

// Process runs one webmention to completion. It returns the stored link on
// success and the result code in every case. Exactly one status and one
// statistic are written per call, whatever the path taken.
func (w *WebmentionService) Process(ctx context.Context, req *mention.Request) (*model.Link, string) {
	// finish the run even when the caller goes away
	ctx = context.WithoutCancel(ctx)

	start := time.Now()
	out := w.run(ctx, req)
	w.report(ctx, req, out, time.Since(start))

	return out.link, out.code
}

func (w *WebmentionService) run(ctx context.Context, req *mention.Request) *outcome {
	target, err := w.guard.Validate(ctx, req.Username, req.Source, req.Target)
	if err != nil {
		return failure(err)
	}

	page, err := w.resolvePage(ctx, target.Site, req.Target)
	if err != nil {
		return failure(err)
	}

	var accessToken string
	if req.IsPrivate() {
		accessToken, err = w.accessToken(ctx, req)
		if err != nil {
			return failure(err)
		}
	}

	data, err := w.resolver.Parse(ctx, xray.ParseRequest{
		URL:         req.Source,
		Target:      req.Target,
		AccessToken: accessToken,
	})
	w.capture(ctx, captureReceived, req, target.TargetDomain, data, err)

	return w.transition(ctx, req, target, page, data, err)
}

func (w *WebmentionService) accessToken(ctx context.Context, req *mention.Request) (string, error) {
	if w.tokens == nil {
		return "", ErrNoAccessToken
	}

	token, err := w.tokens.AccessToken(ctx, req.Source, req.Code)
	if err != nil {
		var xerr *xray.Error
		if errors.As(err, &xerr) {
			return "", mention.NewError(mention.CodeAccessTokenError, xerr.Description)
		}
		return "", mention.NewError(mention.CodeAccessTokenError, fmt.Sprintf("Error obtaining an access token: %v", err))
	}
	if token == "" {
		return "", ErrNoAccessToken
	}

	return token, nil
}

// report writes the status record, the statistic and the metrics for out.
func (w *WebmentionService) report(ctx context.Context, req *mention.Request, out *outcome, elapsed time.Duration) {
	status := &cache.Status{
		Status:  out.code,
		Source:  req.Source,
		Target:  req.Target,
		Summary: out.summary,
		Data:    out.data,
	}
	if out.code == mention.CodeSuccess || out.code == mention.CodeDeleted {
		private := out.private
		status.Private = &private
	}

	if err := w.status.SetStatus(ctx, req.Token, status); err != nil {
		logrus.Errorf("failed to write status %s: %v", req.Token, err)
	}
	if err := w.status.CountStat(ctx, req.Token, req.Protocol, out.code); err != nil {
		logrus.Errorf("failed to count %s/%s: %v", req.Protocol, out.code, err)
	}

	metrics.Processed.WithLabelValues(req.Protocol, out.code).Inc()
	metrics.Duration.Observe(elapsed.Seconds())

	entry := logrus.WithFields(logrus.Fields{
		"token":  req.Token,
		"source": req.Source,
		"target": req.Target,
		"result": out.code,
	})
	switch out.code {
	case mention.CodeSuccess, mention.CodeDeleted:
		entry.Info("webmention processed")
	case mention.CodeNoLinkFound:
		entry.Debug("webmention has no link")
	case mention.CodeInternalError:
		entry.Errorf("webmention failed: %s", out.summary)
	default:
		entry.Warnf("webmention rejected: %s", out.summary)
	}
}

// bestEffort runs a side effect whose failure must not change the result.
func (w *WebmentionService) bestEffort(task string, f func() error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SideEffectFailures.WithLabelValues(task).Inc()
			logrus.Errorf("%s panicked: %v", task, r)
		}
	}()

	if err := f(); err != nil {
		metrics.SideEffectFailures.WithLabelValues(task).Inc()
		logrus.Warnf("%s failed: %v", task, err)
	}
}
