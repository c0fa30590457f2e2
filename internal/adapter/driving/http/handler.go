// Package httphandler is the HTTP driving adapter: it receives GitHub webhook
// deliveries and serves the health endpoint.
package httphandler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ericfisherdev/gitmonitor/internal/application"
	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// GitHub webhook request headers.
const (
	HeaderEvent        = "X-GitHub-Event"
	HeaderDelivery     = "X-GitHub-Delivery"
	HeaderSignature    = "X-Hub-Signature"
	HeaderSignature256 = "X-Hub-Signature-256"
)

// maxPayloadBytes is GitHub's upper bound for webhook payloads.
const maxPayloadBytes = 25 << 20

// Dispatcher processes a verified webhook delivery.
type Dispatcher interface {
	Process(ctx context.Context, event string, body []byte, result *model.WebhookResult)
}

// AppConfig is the part of the service configuration the webhook endpoint checks.
type AppConfig interface {
	// Validate returns an error when the App id, private key or webhook
	// secret is missing.
	Validate() error
	// WebhookSecret returns the secret deliveries are signed with.
	WebhookSecret() string
}

// Handler is the HTTP driving adapter that serves the webhook endpoint.
type Handler struct {
	dispatcher Dispatcher
	cfg        AppConfig
	logger     *slog.Logger
}

// NewHandler creates a Handler. dispatcher may be nil when the service runs
// without App credentials; every delivery is then answered with 500.
func NewHandler(dispatcher Dispatcher, cfg AppConfig, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with tracing, request id, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/github/webhook", h.Webhook)
	mux.HandleFunc("GET /healthz", h.Health)

	// Recovery sits inside the access log so recovered panics log as 500.
	wrapped := recoverPanics(logger, mux)
	wrapped = accessLog(logger, wrapped)
	wrapped = middleware.RequestID(wrapped)

	return otelhttp.NewHandler(wrapped, "gitmonitor")
}

// Webhook verifies a GitHub delivery, dispatches it to the policy handlers and
// answers with the aggregated result.
//
//	500 the App credentials or the webhook secret are not configured
//	400 the event header or the body is missing
//	401 the signature does not match
//	200 otherwise, with the serialized WebhookResult
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Validate(); err != nil || h.dispatcher == nil {
		h.logger.Error("webhook rejected: github app is not configured", "error", err)
		writeError(w, http.StatusInternalServerError, "github app is not configured")
		return
	}

	event := r.Header.Get(HeaderEvent)
	delivery := r.Header.Get(HeaderDelivery)
	if delivery == "" {
		delivery = uuid.NewString()
	}
	logger := h.logger.With("event", event, "delivery", delivery)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		logger.Warn("failed to read webhook body", "error", err)
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	if event == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderEvent+" header")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	if !h.signatureValid(body, r.Header) {
		logger.Warn("webhook signature mismatch")
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	result := model.NewWebhookResult()
	h.dispatcher.Process(r.Context(), event, body, result)

	logger.Info("webhook processed",
		"handlers", len(result.Messages()),
		"action_performed", result.ActionPerformed(),
	)
	writeJSON(w, http.StatusOK, result)
}

// signatureValid prefers the SHA-256 signature and falls back to the SHA-1
// one for deliveries that only carry the legacy header.
func (h *Handler) signatureValid(body []byte, header http.Header) bool {
	secret := h.cfg.WebhookSecret()
	if sig := header.Get(HeaderSignature256); sig != "" {
		return application.IsSignature256Valid(body, sig, secret)
	}
	return application.IsSignatureValid(body, header.Get(HeaderSignature), secret)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
