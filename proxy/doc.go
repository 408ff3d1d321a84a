// Package proxy exposes an OpenAI-compatible speech-to-text API and forwards
// each call to a transcription backend.
//
// POST /v1/audio/transcriptions accepts the multipart fields file, model,
// language and response_format. The backend's answer is normalized to
// {"text": ..., "segments": ...}; backend error statuses are relayed
// unchanged. GET /health reports whether the backend answers its health check.
package proxy
