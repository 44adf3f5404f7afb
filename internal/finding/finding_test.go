package finding

import "testing"

func TestNewEscapesPipes(t *testing.T) {
	f := New(Fail, "lifecycle/enable-disable", "missing call|in disable()")
	if f.Detail != "missing call/in disable()" {
		t.Errorf("Detail = %q, want pipe replaced with slash", f.Detail)
	}
}

func TestLineFormat(t *testing.T) {
	f := New(Warn, "quality/empty-catch", "empty catch block at line 12")
	got := f.Line()
	want := "WARN|quality/empty-catch|empty catch block at line 12"
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestLineFormatWithFix(t *testing.T) {
	f := New(Fail, "lifecycle/signal-balance", "connect() without matching disconnect()").WithFix("store the handler id and disconnect it in disable()")
	got := f.Line()
	want := "FAIL|lifecycle/signal-balance|connect() without matching disconnect()|fix: store the handler id and disconnect it in disable()"
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestEmitterPreservesOrder(t *testing.T) {
	e := &Emitter{}
	e.Emitf(Pass, "a/1", "first")
	e.Emitf(Fail, "a/2", "second")
	e.Emitf(Skip, "a/3", "third")

	lines := e.Lines()
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "PASS|a/1|first" || lines[1] != "FAIL|a/2|second" || lines[2] != "SKIP|a/3|third" {
		t.Errorf("unexpected lines: %v", lines)
	}
}
