package transcription

import "encoding/json"

// Response formats accepted on the inbound API.
const (
	FormatJSON        = "json"
	FormatText        = "text"
	FormatSRT         = "srt"
	FormatVTT         = "vtt"
	FormatVerboseJSON = "verbose_json"
)

const (
	// LanguageAuto asks the backend to detect the language.
	LanguageAuto = "auto"
	// TaskTranscribe is the only task the proxy requests.
	TaskTranscribe = "transcribe"
)

// Request is an inbound transcription request after multipart parsing.
type Request struct {
	Audio       []byte
	Filename    string
	ContentType string
	// Model is accepted for API compatibility and never forwarded.
	Model          string
	Language       string
	ResponseFormat string
}

// BackendRequest is what the backend client sends upstream.
type BackendRequest struct {
	Audio        []byte
	Filename     string
	ContentType  string
	OutputFormat string
	// Language is empty and HasLanguage false when the backend should detect it.
	Language    string
	HasLanguage bool
	Task        string
}

// BackendResponse is any HTTP response received from the backend.
type BackendResponse struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Result is the caller-facing transcription body.
type Result struct {
	Text string `json:"text"`
	// Segments is copied verbatim from the backend when it sent the key.
	Segments json.RawMessage `json:"segments,omitempty"`
}

// HealthStatus is the composite health of the proxy.
type HealthStatus struct {
	Healthy          bool
	BackendReachable bool
}
