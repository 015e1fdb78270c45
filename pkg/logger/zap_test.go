package logger

import (
	"context"
	"testing"

	"github.com/Gunvolt24/merchant_dash/pkg/ctxmeta"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := newFromZap(zap.New(core), false)

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	ctx = ctxmeta.WithCycleID(ctx, "cycle-1")
	l.Infof(ctx, "poll done n=%d", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Message != "poll done n=3" {
		t.Fatalf("message: %q", e.Message)
	}
	fields := e.ContextMap()
	if fields["request_id"] != "req-1" || fields["cycle_id"] != "cycle-1" {
		t.Fatalf("context fields missing: %v", fields)
	}
}

func TestZapLogger_NoFieldsWithoutMeta(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := newFromZap(zap.New(core), true)

	l.Infof(context.Background(), "dropped by level")
	l.Warnf(context.Background(), "warn %s", "x")
	l.Errorf(context.Background(), "err %s", "y")

	if logs.Len() != 2 {
		t.Fatalf("want 2 entries (warn+error), got %d", logs.Len())
	}
	if len(logs.All()[0].Context) != 0 {
		t.Fatalf("no context fields expected, got %v", logs.All()[0].Context)
	}
}
