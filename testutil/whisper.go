package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/kbukum/asr-proxy/component"
)

// Reply is a canned backend answer.
type Reply struct {
	Status      int
	ContentType string
	Body        string
}

// ASRCall is one request received on /asr.
type ASRCall struct {
	Query       url.Values
	Fields      map[string][]string
	Filename    string
	ContentType string
	Audio       []byte
}

// FakeWhisper is an in-process whisper-asr-webservice. It answers /asr with
// the configured Reply and /health with HealthStatus, and records every
// /asr call.
type FakeWhisper struct {
	mu           sync.Mutex
	srv          *httptest.Server
	reply        Reply
	healthStatus int
	calls        []ASRCall
}

var _ TestComponent = (*FakeWhisper)(nil)

// NewFakeWhisper returns a fake that transcribes everything to "hello".
func NewFakeWhisper() *FakeWhisper {
	fw := &FakeWhisper{}
	fw.reset()
	return fw
}

func (fw *FakeWhisper) reset() {
	fw.reply = Reply{Status: http.StatusOK, ContentType: "application/json", Body: `{"text":"hello"}`}
	fw.healthStatus = http.StatusOK
	fw.calls = nil
}

func (fw *FakeWhisper) Name() string { return "fake-whisper" }

func (fw *FakeWhisper) Start(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.srv != nil {
		return errors.New("fake whisper already started")
	}
	fw.srv = httptest.NewServer(http.HandlerFunc(fw.serve))
	return nil
}

func (fw *FakeWhisper) Stop(ctx context.Context) error {
	fw.mu.Lock()
	srv := fw.srv
	fw.srv = nil
	fw.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

func (fw *FakeWhisper) Health(ctx context.Context) component.Health {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.srv == nil {
		return component.Health{Name: fw.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: fw.Name(), Status: component.StatusHealthy}
}

// Reset restores the default reply and forgets recorded calls.
func (fw *FakeWhisper) Reset(ctx context.Context) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.reset()
	return nil
}

// URL is the base URL to configure as WHISPER_URL.
func (fw *FakeWhisper) URL() string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.srv == nil {
		return ""
	}
	return fw.srv.URL
}

// Reply sets the answer for subsequent /asr calls.
func (fw *FakeWhisper) Reply(r Reply) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.reply = r
}

// SetHealth sets the status /health answers with.
func (fw *FakeWhisper) SetHealth(status int) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.healthStatus = status
}

// Calls returns the /asr calls received so far.
func (fw *FakeWhisper) Calls() []ASRCall {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return append([]ASRCall(nil), fw.calls...)
}

func (fw *FakeWhisper) serve(w http.ResponseWriter, r *http.Request) {
	fw.mu.Lock()
	reply, health := fw.reply, fw.healthStatus
	fw.mu.Unlock()

	switch r.URL.Path {
	case "/health":
		w.WriteHeader(health)
		return
	case "/asr":
	default:
		http.NotFound(w, r)
		return
	}

	call := ASRCall{Query: r.URL.Query()}
	if err := r.ParseMultipartForm(32 << 20); err == nil {
		call.Fields = r.MultipartForm.Value
		if f, fh, err := r.FormFile("audio_file"); err == nil {
			call.Filename = fh.Filename
			call.ContentType = fh.Header.Get("Content-Type")
			call.Audio, _ = io.ReadAll(f)
			f.Close()
		}
	}
	fw.mu.Lock()
	fw.calls = append(fw.calls, call)
	fw.mu.Unlock()

	if reply.ContentType != "" {
		w.Header().Set("Content-Type", reply.ContentType)
	}
	w.WriteHeader(reply.Status)
	io.WriteString(w, reply.Body)
}
