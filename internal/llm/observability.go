package llm

import "log/slog"

// CallEvent records metadata about a single provider call.
type CallEvent struct {
	Provider  Provider
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about provider calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// SlogObserver logs call events through a structured logger.
type SlogObserver struct {
	log *slog.Logger
}

// NewSlogObserver creates an Observer that logs events to log.
func NewSlogObserver(log *slog.Logger) *SlogObserver {
	return &SlogObserver{log: log}
}

func (o *SlogObserver) OnCallComplete(event CallEvent) {
	status := "ok"
	if !event.Success {
		status = "err:" + event.ErrorCode
	}
	o.log.Info("llm call",
		"provider", event.Provider,
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"status", status,
	)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
