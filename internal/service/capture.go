package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/store"
	"github.com/emrgen/webmention/internal/xray"
	"github.com/sirupsen/logrus"
)

const (
	captureReceived = "received"
	captureSuccess  = "success"
)

type capturePayload struct {
	Data  xray.PostData `json:"data,omitempty"`
	Error string        `json:"error,omitempty"`
}

// capture stores what the resolver returned when debugging is switched on
// for the target page or its domain.
func (w *WebmentionService) capture(ctx context.Context, stage string, req *mention.Request, domain string, data xray.PostData, resolveErr error) {
	if w.compress == nil {
		return
	}

	_, err := w.store.FindDebug(ctx, req.Target, domain, stage == captureSuccess)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		logrus.Warnf("debug lookup failed: %v", err)
		return
	}

	payload := capturePayload{Data: data}
	if resolveErr != nil {
		payload.Error = resolveErr.Error()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logrus.Warnf("failed to marshal capture: %v", err)
		return
	}
	encoded, err := w.compress.Encode(raw)
	if err != nil {
		logrus.Warnf("failed to encode capture: %v", err)
		return
	}

	err = w.store.CreateDebugCapture(ctx, &model.DebugCapture{
		Token:    req.Token,
		Stage:    stage,
		Source:   req.Source,
		Target:   req.Target,
		Encoding: w.compress.Name(),
		Payload:  encoded,
	})
	if err != nil {
		logrus.Warnf("failed to store capture: %v", err)
	}
}
