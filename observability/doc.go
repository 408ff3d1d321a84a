// Package observability wires OpenTelemetry tracing and metrics with OTLP
// HTTP export.
//
//	shutdown, err := observability.Init(ctx, cfg.Telemetry, "asr-proxy", version, env)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
//
//	metrics, err := observability.NewMetrics(observability.Meter("asr-proxy"))
//	metrics.RecordOperation(ctx, "whisper-asr", "transcribe", "ok", elapsed)
package observability
