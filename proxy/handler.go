package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/asr-proxy/errors"
	"github.com/kbukum/asr-proxy/logger"
	"github.com/kbukum/asr-proxy/metrics"
	"github.com/kbukum/asr-proxy/observability"
	"github.com/kbukum/asr-proxy/server"
	"github.com/kbukum/asr-proxy/transcription"
)

// Multipart field names of the inbound API.
const (
	FieldFile           = "file"
	FieldModel          = "model"
	FieldLanguage       = "language"
	FieldResponseFormat = "response_format"
)

const defaultContentType = "application/octet-stream"

// Handler serves the OpenAI-compatible transcription API on top of one backend.
type Handler struct {
	backend   transcription.Backend
	metrics   *metrics.Metrics
	telemetry *observability.Metrics
	log       *logger.Logger
	debug     bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithTelemetry records OpenTelemetry metrics.
func WithTelemetry(m *observability.Metrics) Option {
	return func(h *Handler) { h.telemetry = m }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// WithDebug enables diagnostics that are otherwise suppressed, such as
// warnings for failed health checks.
func WithDebug(debug bool) Option {
	return func(h *Handler) { h.debug = debug }
}

// NewHandler creates a Handler forwarding to backend.
func NewHandler(backend transcription.Backend, opts ...Option) *Handler {
	h := &Handler{backend: backend, log: logger.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("proxy")
	return h
}

// Transcriptions handles POST /v1/audio/transcriptions.
func (h *Handler) Transcriptions(c *gin.Context) {
	ctx := c.Request.Context()
	log := h.log.WithContext(ctx)
	defer removeUploads(c)

	req, err := readRequest(c)
	if err != nil {
		h.respondError(c, req.ResponseFormat, err)
		return
	}
	h.metrics.ObserveAudio(len(req.Audio))
	if req.Model != "" {
		log.Debug("Ignoring model field", logger.Fields("model", req.Model))
	}

	breq := transcription.NewBackendRequest(req)
	resp, err := h.forward(ctx, breq)
	if err != nil {
		log.Error("Transcription request failed", logger.ErrorFields("transcribe", err), logger.Fields(
			logger.FieldBackend, h.backend.Name(),
			"filename", req.Filename,
			"audio_bytes", len(req.Audio),
		))
		h.respondError(c, req.ResponseFormat, backendError(h.backend.Name(), err))
		return
	}

	outcome := transcription.Normalize(*resp)
	if p := outcome.Passthrough; p != nil {
		log.Warn("Backend returned an error status", logger.Fields(
			logger.FieldBackend, h.backend.Name(),
			logger.FieldStatus, p.StatusCode,
		))
		h.observeRequest(p.StatusCode, req.ResponseFormat)
		server.RespondRaw(c, p.StatusCode, p.ContentType, p.Body)
		return
	}

	h.observeRequest(http.StatusOK, req.ResponseFormat)
	c.JSON(http.StatusOK, outcome.Result)
}

// forward calls the backend detached from the caller: a client that hangs
// up does not abort a transcription already in progress.
func (h *Handler) forward(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
	ctx, span := observability.StartSpan(context.WithoutCancel(ctx), observability.SpanTranscribe)
	defer span.End()
	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = logger.ContextWithTraceID(ctx, sc.TraceID().String())
	}

	name := h.backend.Name()
	observability.SetSpanAttribute(ctx, observability.AttrBackend, name)
	observability.SetSpanAttribute(ctx, observability.AttrOutputFormat, req.OutputFormat)
	observability.SetSpanAttribute(ctx, observability.AttrAudioBytes, len(req.Audio))
	if req.HasLanguage {
		observability.SetSpanAttribute(ctx, observability.AttrLanguage, req.Language)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
	}

	start := time.Now()
	resp, err := h.backend.Transcribe(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		kind := errorKind(err)
		observability.SetSpanError(ctx, err)
		h.metrics.ObserveBackend(name, kind, elapsed)
		h.metrics.ObserveBackendError(name, kind)
		if h.telemetry != nil {
			h.telemetry.RecordOperation(ctx, name, "transcribe", kind, elapsed)
			h.telemetry.RecordError(ctx, kind, name)
		}
		return nil, err
	}

	observability.SetSpanAttribute(ctx, observability.AttrHTTPStatusCode, resp.StatusCode)
	outcome := strconv.Itoa(resp.StatusCode)
	h.metrics.ObserveBackend(name, outcome, elapsed)
	if h.telemetry != nil {
		h.telemetry.RecordOperation(ctx, name, "transcribe", outcome, elapsed)
	}
	h.log.WithContext(ctx).Debug("Backend responded", logger.DurationFields("transcribe", elapsed), logger.Fields(
		logger.FieldBackend, name,
		logger.FieldStatus, resp.StatusCode,
	))
	return resp, nil
}

func (h *Handler) respondError(c *gin.Context, format string, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := apperrors.AsAppError(err); ok {
		status = appErr.HTTPStatus
	}
	h.observeRequest(status, format)
	server.RespondWithError(c, err)
}

// observeRequest labels by the backend output format, which has a fixed set
// of values whatever the caller sent.
func (h *Handler) observeRequest(status int, responseFormat string) {
	h.metrics.ObserveRequest(status, transcription.MapFormat(responseFormat))
}

// removeUploads deletes multipart spool files. The server only cleans up the
// form of the request it created, and middleware hands gin a copy.
func removeUploads(c *gin.Context) {
	if f := c.Request.MultipartForm; f != nil {
		_ = f.RemoveAll()
	}
}

// readRequest extracts the multipart fields. ResponseFormat is filled in
// whenever the form itself parsed, so metrics can label the failure.
func readRequest(c *gin.Context) (transcription.Request, error) {
	req := transcription.Request{}

	fh, err := c.FormFile(FieldFile)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, apperrors.PayloadTooLarge(tooLarge.Limit).WithCause(err)
		}
		req.ResponseFormat = c.DefaultPostForm(FieldResponseFormat, transcription.FormatJSON)
		return req, apperrors.MissingFile(FieldFile).WithCause(err)
	}

	req.ResponseFormat = c.DefaultPostForm(FieldResponseFormat, transcription.FormatJSON)
	if fh.Filename == "" {
		return req, apperrors.MissingFile(FieldFile)
	}

	lang, ok := c.GetPostForm(FieldLanguage)
	if !ok {
		lang = transcription.LanguageAuto
	}
	req.Language = lang
	req.Model = c.PostForm(FieldModel)
	req.Filename = fh.Filename
	req.ContentType = fh.Header.Get("Content-Type")
	if req.ContentType == "" {
		req.ContentType = defaultContentType
	}

	f, err := fh.Open()
	if err != nil {
		return req, apperrors.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	req.Audio, err = io.ReadAll(f)
	if err != nil {
		return req, apperrors.Internal(fmt.Errorf("read upload: %w", err))
	}
	return req, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, transcription.ErrBackendTimeout):
		return "timeout"
	case errors.Is(err, transcription.ErrBackendUnreachable):
		return "unreachable"
	default:
		return "internal"
	}
}

func backendError(backend string, err error) error {
	switch {
	case errors.Is(err, transcription.ErrBackendTimeout):
		return apperrors.BackendTimeout(backend, err)
	case errors.Is(err, transcription.ErrBackendUnreachable):
		return apperrors.BackendUnreachable(backend, err)
	default:
		return apperrors.Internal(err)
	}
}
