package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	root := Begin(FromContext(ctx), ScopeDriver, "execute_code", 0)
	ctx = root.Context(ctx)
	Child(ctx, ScopePass, "parse").End("ok")
	Child(ctx, ScopeAttempt, "attempt#1").End("filtered at phase level")
	root.WithExtra("retries", "0").End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Name != "parse" || ev.Scope != "pass" || ev.ParentID != root.ID() {
		t.Fatalf("unexpected child event: %+v", ev)
	}
	if err := json.Unmarshal([]byte(lines[3]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Kind != "end" || ev.Extra["retries"] != "0" {
		t.Fatalf("unexpected end event: %+v", ev)
	}
}

func TestErrorLevelKeepsOnlyFailures(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)

	Begin(tr, ScopeDriver, "ok-call", 0).End("")
	Begin(tr, ScopePass, "parse", 0).End("")
	Begin(tr, ScopeDriver, "bad-call", 0).Fail().End("boom")

	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "bad-call (boom)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeDebug, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 events, got %d", len(snap))
	}
	got := snap[0].Name + snap[1].Name + snap[2].Name
	if got != "cde" {
		t.Fatalf("expected cde, got %s", got)
	}
}

func TestNopWhenOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Enabled() {
		t.Fatal("tracer should be disabled")
	}
	if d := Begin(tr, ScopeDriver, "x", 0).End(""); d != 0 {
		t.Fatalf("nop span reported duration %v", d)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"off": LevelOff, "PHASE": LevelPhase, "detail": LevelDetail, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestHeartbeatEmitsUntilStopped(t *testing.T) {
	ring := NewRingTracer(64, LevelDetail)
	hb := StartHeartbeat(ring, time.Millisecond, 42)
	if hb == nil {
		t.Fatal("expected heartbeat for enabled tracer")
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	events := ring.Snapshot()
	if len(events) < 2 {
		t.Fatalf("expected at least 2 heartbeats, got %d", len(events))
	}
	for _, ev := range events {
		if ev.Kind != KindHeartbeat || ev.ParentID != 42 || ev.Scope != ScopeAttempt {
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
	n := len(ring.Snapshot())
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != n {
		t.Fatal("heartbeat kept emitting after Stop")
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	if hb := StartHeartbeat(Nop, time.Millisecond, 0); hb != nil {
		t.Fatal("expected nil heartbeat for nop tracer")
	}
	if hb := StartHeartbeat(NewRingTracer(8, LevelDebug), 0, 0); hb != nil {
		t.Fatal("expected nil heartbeat for zero interval")
	}
	var hb *Heartbeat
	hb.Stop()
}
