// Package whisperasr is a transcription.Backend for whisper-asr-webservice.
package whisperasr

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/asr-proxy/component"
	"github.com/kbukum/asr-proxy/httpclient"
	"github.com/kbukum/asr-proxy/logger"
	"github.com/kbukum/asr-proxy/provider"
	"github.com/kbukum/asr-proxy/transcription"
)

const (
	// ProviderName is the registered name of this backend.
	ProviderName = "whisper-asr"

	// HealthTimeout bounds the /health check regardless of Config.Timeout.
	HealthTimeout = 5 * time.Second

	asrPath       = "/asr"
	healthPath    = "/health"
	audioField    = "audio_file"
	defaultURL    = "http://localhost:9000"
	queryOutput   = "output"
	queryTask     = "task"
	queryLanguage = "language"
)

// Config configures the backend client.
type Config struct {
	URL string `mapstructure:"url"`
	// Timeout bounds each transcription call. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client talks to one whisper-asr-webservice instance.
type Client struct {
	cfg    Config
	client *httpclient.Client
	log    *logger.Logger
}

var (
	_ transcription.Backend = (*Client)(nil)
	_ component.Component   = (*Client)(nil)
)

// New creates a client. Requests are never retried.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("whisperasr: timeout must not be negative")
	}
	hc, err := httpclient.New(httpclient.Config{BaseURL: cfg.URL})
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		client: hc,
		log:    logger.WithComponent(ProviderName),
	}, nil
}

// Factory builds a Client from registry configuration ("url", "timeout").
func Factory(cfg map[string]any) (transcription.Backend, error) {
	c, err := provider.DecodeConfig[Config](cfg)
	if err != nil {
		return nil, err
	}
	return New(c)
}

// Register adds this backend to a registry under ProviderName.
func Register(reg *provider.Registry[transcription.Backend]) {
	reg.RegisterFactory(ProviderName, Factory)
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// URL returns the backend base URL.
func (c *Client) URL() string { return c.cfg.URL }

// Transcribe posts the audio to /asr once. Every HTTP status is returned as a
// BackendResponse. Transport failures wrap ErrBackendTimeout or
// ErrBackendUnreachable; a request that cannot be built wraps neither.
func (c *Client) Transcribe(ctx context.Context, req transcription.BackendRequest) (*transcription.BackendResponse, error) {
	query := map[string]string{
		queryOutput: req.OutputFormat,
		queryTask:   req.Task,
	}
	if req.HasLanguage {
		query[queryLanguage] = req.Language
	}

	c.log.WithContext(ctx).Debug("Forwarding to backend", logger.Fields(
		"url", c.cfg.URL+asrPath,
		"output", req.OutputFormat,
		"language", req.Language,
		"bytes", len(req.Audio),
	))

	resp, err := c.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   asrPath,
		Query:  query,
		Body: &httpclient.MultipartBody{Files: []httpclient.FileField{{
			FieldName:   audioField,
			FileName:    req.Filename,
			ContentType: req.ContentType,
			Data:        req.Audio,
		}}},
		Timeout: c.cfg.Timeout,
	})
	if resp != nil {
		return &transcription.BackendResponse{
			StatusCode:  resp.StatusCode,
			Body:        resp.Body,
			ContentType: resp.ContentType(),
		}, nil
	}
	switch {
	case httpclient.IsTimeout(err):
		return nil, fmt.Errorf("%w after %s: %w", transcription.ErrBackendTimeout, c.cfg.Timeout, err)
	case httpclient.IsConnection(err):
		return nil, fmt.Errorf("%w at %s: %w", transcription.ErrBackendUnreachable, c.cfg.URL, err)
	default:
		return nil, fmt.Errorf("whisperasr: build request: %w", err)
	}
}

// CheckHealth calls GET /health and reports true only on HTTP 200.
func (c *Client) CheckHealth(ctx context.Context) bool {
	resp, err := c.client.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    healthPath,
		Timeout: HealthTimeout,
	})
	if resp != nil && resp.StatusCode == http.StatusOK {
		return true
	}
	fields := logger.Fields("url", c.cfg.URL+healthPath)
	if err != nil {
		fields[logger.FieldError] = err.Error()
	}
	c.log.WithContext(ctx).Debug("Backend health check failed", fields)
	return false
}

// IsAvailable implements provider.Provider.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.CheckHealth(ctx)
}

// Start logs the target; the backend may come up after the proxy.
func (c *Client) Start(ctx context.Context) error {
	fields := logger.Fields("url", c.cfg.URL)
	if c.cfg.Timeout > 0 {
		fields["timeout"] = c.cfg.Timeout.String()
	}
	c.log.Info("Backend configured", fields)
	return nil
}

// Stop releases idle connections.
func (c *Client) Stop(ctx context.Context) error {
	c.client.Unwrap().CloseIdleConnections()
	return nil
}

// Health implements component.Component.
func (c *Client) Health(ctx context.Context) component.Health {
	if c.CheckHealth(ctx) {
		return component.Health{Name: ProviderName, Status: component.StatusHealthy}
	}
	return component.Health{Name: ProviderName, Status: component.StatusUnhealthy, Message: "unreachable"}
}
