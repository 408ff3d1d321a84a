package proxy

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/asr-proxy/component"
	"github.com/kbukum/asr-proxy/logger"
	"github.com/kbukum/asr-proxy/metrics"
	"github.com/kbukum/asr-proxy/server"
	"github.com/kbukum/asr-proxy/server/middleware"
	"github.com/kbukum/asr-proxy/testutil"
	"github.com/kbukum/asr-proxy/transcription"
	"github.com/kbukum/asr-proxy/transcription/whisperasr"
)

type upload struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func audioUpload() *upload {
	return &upload{field: FieldFile, filename: "clip.wav", contentType: "audio/wav", data: []byte("RIFFfakeaudio")}
}

func multipartRequest(t *testing.T, fields map[string]string, file *upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(file.data)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, PathTranscriptions, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newFakeWhisper(t *testing.T, status int, contentType, body string) *testutil.FakeWhisper {
	t.Helper()
	fw := testutil.NewFakeWhisper()
	testutil.T(t).Setup(fw)
	fw.Reply(testutil.Reply{Status: status, ContentType: contentType, Body: body})
	fw.SetHealth(status)
	return fw
}

func lastCall(t *testing.T, fw *testutil.FakeWhisper) testutil.ASRCall {
	t.Helper()
	calls := fw.Calls()
	if len(calls) == 0 {
		t.Fatal("backend was not called")
	}
	return calls[len(calls)-1]
}

func newStack(t *testing.T, backendURL string, cfg server.Config, opts ...Option) http.Handler {
	t.Helper()
	backend, err := whisperasr.New(whisperasr.Config{URL: backendURL})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	return newStackWithBackend(t, backend, cfg, opts...)
}

func newStackWithBackend(t *testing.T, backend transcription.Backend, cfg server.Config, opts ...Option) http.Handler {
	t.Helper()
	cfg.ApplyDefaults()
	s := server.New(cfg, logger.NewNop())
	s.ApplyMiddleware()
	NewHandler(backend, opts...).RegisterRoutes(s.GinEngine())
	return s.Handler()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestTranscriptions_PassesSegmentsThrough(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json",
		`{"text":"hello","segments":[{"id":0}],"language":"en"}`)
	h := newStack(t, fw.URL(), server.Config{})

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if string(out["text"]) != `"hello"` {
		t.Errorf("unexpected text %s", out["text"])
	}
	if string(out["segments"]) != `[{"id":0}]` {
		t.Errorf("unexpected segments %s", out["segments"])
	}
	if _, ok := out["language"]; ok {
		t.Error("only text and segments should be returned")
	}

	got := lastCall(t, fw)
	if got.Query["output"][0] != "json" || got.Query["task"][0] != "transcribe" {
		t.Errorf("unexpected query %v", got.Query)
	}
	if _, ok := got.Query["language"]; ok {
		t.Error("default language auto must not be forwarded")
	}
	if got.Filename != "clip.wav" || got.ContentType != "audio/wav" || string(got.Audio) != "RIFFfakeaudio" {
		t.Errorf("unexpected upload %q %q %q", got.Filename, got.ContentType, got.Audio)
	}
}

func TestTranscriptions_OmitsAbsentSegments(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"hi"}`)
	h := newStack(t, fw.URL(), server.Config{})

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if string(out["text"]) != `"hi"` {
		t.Errorf("unexpected text %s", out["text"])
	}
	if _, ok := out["segments"]; ok {
		t.Error("segments key should be absent")
	}
}

func TestTranscriptions_PlainTextBody(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "text/plain", "hello world")
	h := newStack(t, fw.URL(), server.Config{})

	rec := serve(h, multipartRequest(t, map[string]string{FieldResponseFormat: "text"}, audioUpload()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"text":"hello world"}` {
		t.Errorf("unexpected body %s", body)
	}
	if q := lastCall(t, fw).Query; q["output"][0] != "text" {
		t.Errorf("expected output=text, got %v", q["output"])
	}
}

func TestTranscriptions_RelaysJSONError(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusNotFound, "application/json", `{"detail":"not found"}`)
	h := newStack(t, fw.URL(), server.Config{})

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.String() != `{"detail":"not found"}` {
		t.Errorf("body should be relayed verbatim, got %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestTranscriptions_RelaysTextError(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusBadGateway, "", "upstream exploded")
	h := newStack(t, fw.URL(), server.Config{})

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if rec.Body.String() != "upstream exploded" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
}

func TestTranscriptions_MissingFile(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"x"}`)
	h := newStack(t, fw.URL(), server.Config{})

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"no file part", multipartRequest(t, map[string]string{FieldModel: "whisper-1"}, nil)},
		{"empty filename", multipartRequest(t, nil, &upload{field: FieldFile, filename: "", data: []byte("abc")})},
		{"wrong field name", multipartRequest(t, nil, &upload{field: "audio", filename: "a.wav", data: []byte("abc")})},
		{"not multipart", httptest.NewRequest(http.MethodPost, PathTranscriptions, strings.NewReader(`{"file":"x"}`))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"No audio file provided"}` {
				t.Errorf("unexpected body %s", body)
			}
		})
	}
	if n := len(fw.Calls()); n != 0 {
		t.Errorf("backend should not be called, got %d calls", n)
	}
}

func TestTranscriptions_FormatAndLanguageMapping(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		wantOutput string
		wantLang   []string
	}{
		{"defaults", nil, "json", nil},
		{"explicit auto", map[string]string{FieldLanguage: "auto"}, "json", nil},
		{"language forwarded", map[string]string{FieldLanguage: "de"}, "json", []string{"de"}},
		{"empty language forwarded", map[string]string{FieldLanguage: ""}, "json", []string{""}},
		{"srt", map[string]string{FieldResponseFormat: "srt"}, "srt", nil},
		{"vtt", map[string]string{FieldResponseFormat: "vtt"}, "vtt", nil},
		{"verbose_json degrades", map[string]string{FieldResponseFormat: "verbose_json"}, "json", nil},
		{"unknown format", map[string]string{FieldResponseFormat: "xml"}, "json", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"ok"}`)
			h := newStack(t, fw.URL(), server.Config{})

			rec := serve(h, multipartRequest(t, tc.fields, audioUpload()))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			q := lastCall(t, fw).Query
			if got := q["output"]; len(got) != 1 || got[0] != tc.wantOutput {
				t.Errorf("expected output=%s, got %v", tc.wantOutput, got)
			}
			lang, ok := q["language"]
			if tc.wantLang == nil {
				if ok {
					t.Errorf("language should be omitted, got %v", lang)
				}
			} else if !ok || lang[0] != tc.wantLang[0] {
				t.Errorf("expected language %v, got %v", tc.wantLang, lang)
			}
		})
	}
}

func TestTranscriptions_ModelNotForwarded(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"ok"}`)
	h := newStack(t, fw.URL(), server.Config{})

	rec := serve(h, multipartRequest(t, map[string]string{FieldModel: "whisper-1"}, audioUpload()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := lastCall(t, fw)
	if _, ok := got.Fields["model"]; ok {
		t.Error("model must not be forwarded")
	}
	if _, ok := got.Query["model"]; ok {
		t.Error("model must not be forwarded in the query")
	}
}

func TestTranscriptions_DefaultContentType(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"ok"}`)
	h := newStack(t, fw.URL(), server.Config{})

	file := audioUpload()
	file.contentType = ""
	serve(h, multipartRequest(t, nil, file))

	if ct := lastCall(t, fw).ContentType; ct != "application/octet-stream" {
		t.Errorf("expected application/octet-stream, got %q", ct)
	}
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err == nil {
			lines = append(lines, m)
		}
	}
	return lines
}

func TestTranscriptions_BackendUnreachable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "asr-proxy", &buf)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := newStack(t, url, server.Config{}, WithLogger(log), WithMetrics(m))

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Internal proxy error"}` {
		t.Errorf("unexpected body %s", body)
	}
	if strings.Contains(rec.Body.String(), "127.0.0.1") {
		t.Error("response must not leak backend detail")
	}

	id := rec.Header().Get(middleware.HeaderRequestID)
	found := false
	for _, line := range logLines(t, &buf) {
		if line["message"] == "Transcription request failed" {
			found = true
			if line[logger.FieldCorrelationID] != id {
				t.Errorf("expected correlation id %q, got %v", id, line[logger.FieldCorrelationID])
			}
			if line["level"] != "error" {
				t.Errorf("expected error level, got %v", line["level"])
			}
			if !strings.Contains(line[logger.FieldError].(string), "unreachable") {
				t.Errorf("expected detail in log, got %v", line[logger.FieldError])
			}
		}
	}
	if !found {
		t.Errorf("expected failure log line, got %s", buf.String())
	}

	if got := promtest.ToFloat64(m.BackendErrors.WithLabelValues(whisperasr.ProviderName, "unreachable")); got != 1 {
		t.Errorf("expected 1 backend error, got %v", got)
	}
	if got := promtest.ToFloat64(m.Requests.WithLabelValues("500", "json")); got != 1 {
		t.Errorf("expected 1 failed request, got %v", got)
	}
}

func TestTranscriptions_BackendTimeout(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	backend, err := whisperasr.New(whisperasr.Config{URL: slow.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	m := metrics.New(prometheus.NewRegistry())
	h := newStackWithBackend(t, backend, server.Config{}, WithMetrics(m))

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := promtest.ToFloat64(m.BackendErrors.WithLabelValues(whisperasr.ProviderName, "timeout")); got != 1 {
		t.Errorf("expected 1 timeout, got %v", got)
	}
}

func TestTranscriptions_BodyTooLarge(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"x"}`)
	h := newStack(t, fw.URL(), server.Config{MaxBodySize: "1KB"})

	big := audioUpload()
	big.data = bytes.Repeat([]byte("a"), 4096)

	declared := multipartRequest(t, nil, big)
	undeclared := multipartRequest(t, nil, big)
	undeclared.ContentLength = -1

	for name, req := range map[string]*http.Request{"declared": declared, "undeclared": undeclared} {
		t.Run(name, func(t *testing.T) {
			rec := serve(h, req)
			if rec.Code != http.StatusRequestEntityTooLarge {
				t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
			}
			if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Request body too large"}` {
				t.Errorf("unexpected body %s", body)
			}
		})
	}
	if n := len(fw.Calls()); n != 0 {
		t.Errorf("backend should not be called, got %d calls", n)
	}
}

func TestTranscriptions_EchoesRequestID(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"x"}`)
	h := newStack(t, fw.URL(), server.Config{})

	req := multipartRequest(t, nil, audioUpload())
	req.Header.Set(middleware.HeaderRequestID, "cafe1234")
	rec := serve(h, req)

	if got := rec.Header().Get(middleware.HeaderRequestID); got != "cafe1234" {
		t.Errorf("expected echoed id, got %q", got)
	}
}

// stubBackend is a transcription.Backend with scripted behavior.
type stubBackend struct {
	transcribe func(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error)
	healthy    bool
}

func (s *stubBackend) Name() string                         { return "stub" }
func (s *stubBackend) IsAvailable(ctx context.Context) bool { return s.healthy }
func (s *stubBackend) Start(ctx context.Context) error      { return nil }
func (s *stubBackend) Stop(ctx context.Context) error       { return nil }
func (s *stubBackend) CheckHealth(ctx context.Context) bool { return s.healthy }
func (s *stubBackend) Health(ctx context.Context) component.Health {
	return component.Health{Name: "stub", Status: component.StatusHealthy}
}
func (s *stubBackend) Transcribe(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
	return s.transcribe(ctx, req)
}

func TestTranscriptions_DetachesCallerCancellation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var sawErr error
	var sawDone bool
	backend := &stubBackend{transcribe: func(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
		sawErr = ctx.Err()
		sawDone = ctx.Done() != nil
		return &transcription.BackendResponse{StatusCode: http.StatusOK, Body: []byte(`{"text":"done"}`)}, nil
	}}

	ctx, cancel := context.WithCancel(logger.ContextWithCorrelationID(context.Background(), "0badf00d"))
	cancel()
	req := multipartRequest(t, nil, audioUpload()).WithContext(ctx)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	NewHandler(backend).Transcriptions(c)

	if sawErr != nil || sawDone {
		t.Errorf("backend context should not be cancellable: err=%v done=%v", sawErr, sawDone)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestTranscriptions_NonStringText(t *testing.T) {
	backend := &stubBackend{transcribe: func(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
		return &transcription.BackendResponse{StatusCode: http.StatusOK, Body: []byte(`{"segments":null}`)}, nil
	}}
	h := newStackWithBackend(t, backend, server.Config{})

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	out := decode(t, rec)
	if string(out["text"]) != `""` {
		t.Errorf("missing text should become empty string, got %s", out["text"])
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantCode   int
		wantBody   string
		wantResult string
	}{
		{"healthy", http.StatusOK, http.StatusOK, `{"status":"healthy","whisper":"ok"}`, "ok"},
		{"backend error", http.StatusInternalServerError, http.StatusServiceUnavailable, `{"status":"unhealthy","whisper":"unreachable"}`, "unreachable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fw := newFakeWhisper(t, tc.status, "", "")
			m := metrics.New(prometheus.NewRegistry())
			h := newStack(t, fw.URL(), server.Config{}, WithMetrics(m))

			rec := serve(h, httptest.NewRequest(http.MethodGet, PathHealth, nil))

			if rec.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != tc.wantBody {
				t.Errorf("unexpected body %s", body)
			}
			if got := promtest.ToFloat64(m.HealthChecks.WithLabelValues(tc.wantResult)); got != 1 {
				t.Errorf("expected health metric %s=1, got %v", tc.wantResult, got)
			}
		})
	}
}

func TestHealth_UnreachableWarnsOnlyInDebug(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	for _, debug := range []bool{false, true} {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "asr-proxy", &buf)
		h := newStack(t, url, server.Config{}, WithLogger(log), WithDebug(debug))

		rec := serve(h, httptest.NewRequest(http.MethodGet, PathHealth, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}

		warned := strings.Contains(buf.String(), "Backend health check failed")
		if warned != debug {
			t.Errorf("debug=%v: warned=%v", debug, warned)
		}
	}
}

func TestCheckHealth(t *testing.T) {
	h := NewHandler(&stubBackend{healthy: true})
	if st := h.CheckHealth(context.Background()); !st.Healthy || !st.BackendReachable {
		t.Errorf("expected healthy, got %+v", st)
	}
	h = NewHandler(&stubBackend{healthy: false})
	if st := h.CheckHealth(context.Background()); st.Healthy || st.BackendReachable {
		t.Errorf("expected unhealthy, got %+v", st)
	}
}

func TestTranscriptions_RemovesSpooledUploads(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	var received int
	backend := &stubBackend{transcribe: func(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
		received = len(req.Audio)
		return &transcription.BackendResponse{StatusCode: http.StatusOK, Body: []byte(`{"text":"long"}`)}, nil
	}}
	h := newStackWithBackend(t, backend, server.Config{})

	// Larger than gin's in-memory multipart limit, so the part is spooled to disk.
	big := audioUpload()
	big.data = bytes.Repeat([]byte("a"), 40<<20)
	rec := serve(h, multipartRequest(t, nil, big))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if received != len(big.data) {
		t.Errorf("expected %d audio bytes forwarded, got %d", len(big.data), received)
	}
	left, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected no spool files, found %d (first %s)", len(left), left[0].Name())
	}
}

func TestTranscriptions_FormatLabelIsBounded(t *testing.T) {
	fw := newFakeWhisper(t, http.StatusOK, "application/json", `{"text":"ok"}`)
	m := metrics.New(prometheus.NewRegistry())
	h := newStack(t, fw.URL(), server.Config{}, WithMetrics(m))

	for _, format := range []string{"a1", "b2", "c3", "verbose_json", ""} {
		rec := serve(h, multipartRequest(t, map[string]string{FieldResponseFormat: format}, audioUpload()))
		if rec.Code != http.StatusOK {
			t.Fatalf("format %q: expected 200, got %d", format, rec.Code)
		}
	}
	serve(h, multipartRequest(t, map[string]string{FieldResponseFormat: "zz"}, nil))

	if n := promtest.CollectAndCount(m.Requests); n != 2 {
		t.Errorf("expected 2 series, got %d", n)
	}
	if got := promtest.ToFloat64(m.Requests.WithLabelValues("200", "json")); got != 5 {
		t.Errorf("expected 5 successful json requests, got %v", got)
	}
	if got := promtest.ToFloat64(m.Requests.WithLabelValues("400", "json")); got != 1 {
		t.Errorf("expected 1 rejected json request, got %v", got)
	}
}

func TestTranscriptions_LogsTraceID(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "asr-proxy", &buf)
	backend := &stubBackend{transcribe: func(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
		return &transcription.BackendResponse{StatusCode: http.StatusOK, Body: []byte(`{"text":"x"}`)}, nil
	}}
	h := newStackWithBackend(t, backend, server.Config{}, WithLogger(log))

	rec := serve(h, multipartRequest(t, nil, audioUpload()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	traceID := spans[0].SpanContext().TraceID().String()

	found := false
	for _, line := range logLines(t, &buf) {
		if line["message"] != "Backend responded" {
			continue
		}
		found = true
		if line[logger.FieldTraceID] != traceID {
			t.Errorf("expected trace id %s, got %v", traceID, line[logger.FieldTraceID])
		}
		if line[logger.FieldCorrelationID] != rec.Header().Get(middleware.HeaderRequestID) {
			t.Errorf("expected correlation id, got %v", line[logger.FieldCorrelationID])
		}
		if line[logger.FieldOperation] != "transcribe" {
			t.Errorf("expected operation field, got %v", line[logger.FieldOperation])
		}
		if _, ok := line[logger.FieldDuration]; !ok {
			t.Error("expected duration field")
		}
	}
	if !found {
		t.Errorf("expected backend log line, got %s", buf.String())
	}
}

func TestTranscriptions_UnclassifiedBackendError(t *testing.T) {
	backend := &stubBackend{transcribe: func(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
		return nil, errors.New("encode body: broken")
	}}
	m := metrics.New(prometheus.NewRegistry())
	h := newStackWithBackend(t, backend, server.Config{}, WithMetrics(m))

	rec := serve(h, multipartRequest(t, nil, audioUpload()))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"Internal proxy error"}` {
		t.Errorf("unexpected body %s", body)
	}
	if got := promtest.ToFloat64(m.BackendErrors.WithLabelValues("stub", "internal")); got != 1 {
		t.Errorf("expected 1 internal backend error, got %v", got)
	}
}
