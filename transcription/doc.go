// Package transcription holds the translation rules between the
// OpenAI-style transcription API and a speech-to-text backend: request
// mapping (MapFormat, MapLanguage, NewBackendRequest), response
// normalization (ParseBody, Normalize) and the Backend interface that
// upstream clients implement.
package transcription
