package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/emrgen/webmention/internal/cache"
	"github.com/emrgen/webmention/internal/mention"
	"github.com/emrgen/webmention/internal/model"
	"github.com/emrgen/webmention/internal/queue"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handler accepts webmentions over HTTP and serves their status.
type Handler struct {
	queue  queue.MentionQueue
	status cache.StatusCache
}

func NewHandler(queue queue.MentionQueue, status cache.StatusCache) *Handler {
	return &Handler{queue: queue, status: status}
}

// Routes returns the mux of the public endpoints.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{username}/webmention", h.receive)
	mux.HandleFunc("GET /{username}/webmention/{token}", h.getStatus)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

type receiveResponse struct {
	Status   string `json:"status"`
	Summary  string `json:"summary"`
	Location string `json:"location"`
	Source   string `json:"source"`
	Target   string `json:"target"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body could not be parsed")
		return
	}

	source := r.PostForm.Get("source")
	target := r.PostForm.Get("target")
	if source == "" || target == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "source and target are required")
		return
	}
	if !isHTTPURL(source) {
		writeError(w, http.StatusBadRequest, mention.CodeInvalidSource, "source must be an http or https URL")
		return
	}
	if !isHTTPURL(target) {
		writeError(w, http.StatusBadRequest, mention.CodeInvalidTarget, "target must be an http or https URL")
		return
	}

	req := &mention.Request{
		Username:     r.PathValue("username"),
		Source:       source,
		Target:       target,
		Protocol:     model.ProtocolWebmention,
		Token:        uuid.NewString(),
		Code:         r.PostForm.Get("code"),
		EndpointType: model.EndpointTypeAccount,
	}

	err := h.status.SetStatus(r.Context(), req.Token, &cache.Status{
		Status:  cache.StatusQueued,
		Source:  source,
		Target:  target,
		Summary: "The webmention is currently being processed.",
	})
	if err != nil {
		logrus.Errorf("failed to write queued status: %v", err)
		writeError(w, http.StatusInternalServerError, mention.CodeInternalError, "webmention could not be queued")
		return
	}

	if err := h.queue.Publish(r.Context(), req); err != nil {
		logrus.Errorf("failed to queue webmention %s: %v", req.Token, err)
		writeError(w, http.StatusInternalServerError, mention.CodeInternalError, "webmention could not be queued")
		return
	}

	location := (&url.URL{Path: "/" + req.Username + "/webmention/" + req.Token}).String()
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusCreated, receiveResponse{
		Status:   cache.StatusQueued,
		Summary:  "Webmention was queued for processing",
		Location: location,
		Source:   source,
		Target:   target,
	})
}

func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.status.GetStatus(r.Context(), r.PathValue("token"))
	if err != nil {
		logrus.Errorf("failed to read status: %v", err)
		writeError(w, http.StatusInternalServerError, mention.CodeInternalError, "status could not be read")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "not_found", "no webmention was found for this token")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func writeError(w http.ResponseWriter, code int, errCode, description string) {
	writeJSON(w, code, errorResponse{Error: errCode, Description: description})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}
