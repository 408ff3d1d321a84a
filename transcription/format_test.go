package transcription

import "testing"

func TestMapFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"json", "json"},
		{"text", "text"},
		{"srt", "srt"},
		{"vtt", "vtt"},
		{"verbose_json", "json"},
		{"", "json"},
		{"tsv", "json"},
		{"JSON", "json"},
		{"SRT", "json"},
		{" text", "json"},
	}
	for _, tc := range tests {
		if got := MapFormat(tc.in); got != tc.want {
			t.Errorf("MapFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapLanguage(t *testing.T) {
	tests := []struct {
		in       string
		wantLang string
		wantOK   bool
	}{
		{"auto", "", false},
		{"en", "en", true},
		{"", "", true},
		{"Auto", "Auto", true},
		{"AUTO", "AUTO", true},
		{"zh-TW", "zh-TW", true},
	}
	for _, tc := range tests {
		lang, ok := MapLanguage(tc.in)
		if lang != tc.wantLang || ok != tc.wantOK {
			t.Errorf("MapLanguage(%q) = (%q, %v), want (%q, %v)", tc.in, lang, ok, tc.wantLang, tc.wantOK)
		}
	}
}

func TestNewBackendRequest(t *testing.T) {
	req := Request{
		Audio:          []byte("RIFF"),
		Filename:       "clip.wav",
		ContentType:    "audio/wav",
		Model:          "whisper-1",
		Language:       "auto",
		ResponseFormat: "verbose_json",
	}
	br := NewBackendRequest(req)

	if br.OutputFormat != "json" {
		t.Errorf("expected json output, got %q", br.OutputFormat)
	}
	if br.HasLanguage || br.Language != "" {
		t.Errorf("auto must not be forwarded, got (%q, %v)", br.Language, br.HasLanguage)
	}
	if br.Task != TaskTranscribe {
		t.Errorf("expected task transcribe, got %q", br.Task)
	}
	if string(br.Audio) != "RIFF" || br.Filename != "clip.wav" || br.ContentType != "audio/wav" {
		t.Errorf("file fields not carried over: %+v", br)
	}

	req.Language = "de"
	req.ResponseFormat = "srt"
	br = NewBackendRequest(req)
	if !br.HasLanguage || br.Language != "de" || br.OutputFormat != "srt" {
		t.Errorf("unexpected mapping %+v", br)
	}
}
