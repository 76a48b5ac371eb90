package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraceIDIsAppended(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core))

	ctx := WithTraceID(context.Background(), "trace-1")
	l.Info(ctx, "hello", zap.String("k", "v"))
	l.Warn(context.Background(), "bare")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "trace-1", entries[0].ContextMap()[traceField])
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
	_, ok := entries[1].ContextMap()[traceField]
	assert.False(t, ok)
}

func TestFromContextFallsBack(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := Nop()
	ctx := ContextWithLogger(context.Background(), l)
	got, ok := GetFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, l, got)
}
