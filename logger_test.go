package caster

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureLogs routes caster logging into a buffer for the test's duration.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	ctx := context.Background()
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(ctx, level) {
			t.Errorf("Enabled(%v) = true", level)
		}
	}
	if err := h.Handle(ctx, slog.Record{}); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("id", 1)}).(nopHandler); !ok {
		t.Error("WithAttrs did not return a nopHandler")
	}
	if _, ok := h.WithGroup("g").(nopHandler); !ok {
		t.Error("WithGroup did not return a nopHandler")
	}
}

func TestLoggerSilentByDefault(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("Logger() = nil after SetLogger(nil)")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("logger enabled after SetLogger(nil)")
	}
}

func TestPoolLogsSpawn(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	p := NewPool()
	e, err := p.Spawn(3, Vec2[uint32](1, 2), 0, 1, Vec2[uint32](0, 0))
	if err != nil {
		t.Fatalf("Spawn() = %v", err)
	}
	defer p.Clear()

	out := buf.String()
	for _, want := range []string{"caster: entity spawned", "material=3", fmt.Sprintf("id=%d", e.ID())} {
		if !strings.Contains(out, want) {
			t.Errorf("spawn log %q missing %q", out, want)
		}
	}
}

func TestPoolSpawnSilentAtInfo(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	p := NewPool()
	if _, err := p.Spawn(1, Vec2[uint32](0, 0), 0, 1, Vec2[uint32](0, 0)); err != nil {
		t.Fatalf("Spawn() = %v", err)
	}
	defer p.Clear()

	if buf.Len() != 0 {
		t.Errorf("debug spawn logged at info level: %q", buf.String())
	}
}

func TestSetLoggerConcurrent(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("frame", "n", 1)
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkLoggerDisabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("render: frame", "instances", 128)
	}
}
