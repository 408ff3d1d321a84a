package transcription

// MapFormat maps an inbound response_format to the backend output format.
// verbose_json degrades to json; unknown and empty values map to json.
func MapFormat(responseFormat string) string {
	switch responseFormat {
	case FormatJSON, FormatText, FormatSRT, FormatVTT:
		return responseFormat
	default:
		return FormatJSON
	}
}

// MapLanguage returns the language to forward and whether to forward one at
// all. Only the exact value "auto" suppresses it; "" is forwarded as-is.
func MapLanguage(language string) (string, bool) {
	if language == LanguageAuto {
		return "", false
	}
	return language, true
}

// NewBackendRequest derives the backend request from an inbound request.
func NewBackendRequest(req Request) BackendRequest {
	lang, ok := MapLanguage(req.Language)
	return BackendRequest{
		Audio:        req.Audio,
		Filename:     req.Filename,
		ContentType:  req.ContentType,
		OutputFormat: MapFormat(req.ResponseFormat),
		Language:     lang,
		HasLanguage:  ok,
		Task:         TaskTranscribe,
	}
}
