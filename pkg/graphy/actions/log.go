// Package actions ships reference side-effect services for the watch
// engine: a zap-backed log sink, a PNG screenshot writer and an opt-in
// execution breaker. Hosts with richer needs implement the engine's
// service interfaces themselves.
package actions

import (
	"go.uber.org/zap"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// ZapSink implements graphy.LogSink over a zap logger, mapping message
// severities to zap levels.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a log sink writing through logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Write dispatches msg at the zap level matching sev. Unknown severities
// are dispatched as plain logs.
func (s *ZapSink) Write(sev graphy.Severity, msg string) {
	switch sev {
	case graphy.SeverityError:
		s.logger.Error(msg)
	case graphy.SeverityWarning:
		s.logger.Warn(msg)
	default:
		s.logger.Info(msg)
	}
}

// Ensure ZapSink implements graphy.LogSink.
var _ graphy.LogSink = (*ZapSink)(nil)
