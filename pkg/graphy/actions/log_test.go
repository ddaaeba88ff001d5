package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/r2d2m/graphy/pkg/graphy"
)

func TestZapSink_MapsSeverities(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := NewZapSink(zap.New(core))

	sink.Write(graphy.SeverityLog, "plain")
	sink.Write(graphy.SeverityWarning, "worrying")
	sink.Write(graphy.SeverityError, "bad")
	sink.Write(graphy.Severity("mystery"), "fallback")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "plain", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "worrying", entries[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "bad", entries[2].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[3].Level, "unknown severities fall back to plain logs")
}

func TestNewZapSink_ToleratesNilLogger(t *testing.T) {
	sink := NewZapSink(nil)

	assert.NotPanics(t, func() { sink.Write(graphy.SeverityError, "into the void") })
}
