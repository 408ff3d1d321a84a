// Package config loads service configuration from a config.yml, an optional
// .env file and the process environment, in increasing order of precedence.
//
// Environment variable names map onto nested keys by treating underscores as
// separators, so WHISPER_URL sets whisper.url and SERVER_MAX_BODY_SIZE sets
// server.max_body_size:
//
//	cfg, err := config.LoadProxy(config.WithEnvFile(".env"))
package config
