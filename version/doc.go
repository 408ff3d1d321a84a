// Package version exposes build information set at link time:
//
//	go build -ldflags "-X github.com/kbukum/asr-proxy/version.Version=1.2.0"
package version
