package transcription

import (
	"bytes"
	"encoding/json"
	"net/http"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

// ParsedBody is the result of reading a backend body as a JSON object.
// When OK is false, Raw holds the body as text.
type ParsedBody struct {
	Object map[string]json.RawMessage
	Raw    string
	OK     bool
}

// ParseBody decodes body as a JSON object. Anything else comes back
// unparsed: a JSON string as its unquoted value, everything else verbatim.
func ParseBody(body []byte) ParsedBody {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil && obj != nil {
		return ParsedBody{Object: obj, OK: true}
	}
	if bytes.HasPrefix(bytes.TrimSpace(body), []byte(`"`)) {
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return ParsedBody{Raw: s}
		}
	}
	return ParsedBody{Raw: string(body)}
}

// Passthrough is a backend error relayed to the caller unchanged.
type Passthrough struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Outcome is either a Result (backend answered 200) or a Passthrough.
type Outcome struct {
	Result      *Result
	Passthrough *Passthrough
}

// Normalize turns a backend response into what the caller receives.
func Normalize(resp BackendResponse) Outcome {
	if resp.StatusCode != http.StatusOK {
		ct := contentTypeText
		if json.Valid(resp.Body) {
			ct = contentTypeJSON
		}
		return Outcome{Passthrough: &Passthrough{
			StatusCode:  resp.StatusCode,
			Body:        resp.Body,
			ContentType: ct,
		}}
	}

	parsed := ParseBody(resp.Body)
	if !parsed.OK {
		return Outcome{Result: &Result{Text: parsed.Raw}}
	}

	result := &Result{Text: textValue(parsed.Object["text"])}
	if segments, ok := parsed.Object["segments"]; ok {
		result.Segments = segments
	}
	return Outcome{Result: result}
}

// textValue renders the "text" member. Strings are unquoted, a missing key
// or null gives "", other JSON values keep their literal form.
func textValue(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
