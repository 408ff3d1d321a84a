package httpclient

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"
)

type decodedPart struct {
	name        string
	filename    string
	contentType string
	data        string
}

func decodeMultipart(t *testing.T, r io.Reader, contentType string) []decodedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("ParseMediaType error: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("media type = %q, want multipart/form-data", mediaType)
	}
	mr := multipart.NewReader(r, params["boundary"])
	var parts []decodedPart
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextPart error: %v", err)
		}
		data, _ := io.ReadAll(part)
		parts = append(parts, decodedPart{
			name:        part.FormName(),
			filename:    part.FileName(),
			contentType: part.Header.Get("Content-Type"),
			data:        string(data),
		})
	}
	return parts
}

func TestMultipartBody_FileDefaults(t *testing.T) {
	mp := &MultipartBody{Files: []FileField{{FieldName: "audio_file", FileName: "clip.wav", Data: []byte("RIFF")}}}
	r, ct, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := decodeMultipart(t, r, ct)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	p := parts[0]
	if p.name != "audio_file" || p.filename != "clip.wav" || p.data != "RIFF" {
		t.Errorf("unexpected part %+v", p)
	}
	if p.contentType != defaultFileContentType {
		t.Errorf("content type = %q, want %q", p.contentType, defaultFileContentType)
	}
}

func TestMultipartBody_QuotedNameAndOrder(t *testing.T) {
	mp := &MultipartBody{Files: []FileField{{
		FieldName:   "audio_file",
		FileName:    `my "best" take.mp3`,
		ContentType: "audio/mpeg",
		Data:        []byte("ID3"),
	}, {
		FieldName: "second",
		FileName:  "b.bin",
	}}}
	r, ct, err := mp.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	parts := decodeMultipart(t, r, ct)
	if len(parts) != 2 || parts[1].name != "second" || parts[1].data != "" {
		t.Fatalf("unexpected parts %+v", parts)
	}
	p := parts[0]
	if p.filename != `my "best" take.mp3` {
		t.Errorf("filename = %q", p.filename)
	}
	if p.contentType != "audio/mpeg" || p.data != "ID3" {
		t.Errorf("unexpected part %+v", p)
	}
}

func TestEscapeQuotes(t *testing.T) {
	if got := escapeQuotes(`a"b\c`); got != `a\"b\\c` {
		t.Errorf("escapeQuotes = %q", got)
	}
}
