package ownership

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeBinary writes a tiny Go-free shell script pretending to be `ego-lint`,
// so ReportViaSubprocess's `binaryPath resource-graph --json extDir` call
// can be exercised without building the real CLI.
func fakeBinary(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-ego-lint.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := exec.LookPath("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	return path
}

func TestReportViaSubprocessSuccess(t *testing.T) {
	bin := fakeBinary(t, `echo '{"files_scanned":3,"ownership_depth":1,"orphans":[]}'`)
	lines := ReportViaSubprocess(context.Background(), bin, "/tmp/ext", time.Second)
	if len(lines) != 1 || !strings.Contains(lines[0], "3 files scanned") {
		t.Errorf("ReportViaSubprocess() = %v", lines)
	}
}

func TestReportViaSubprocessWithOrphans(t *testing.T) {
	bin := fakeBinary(t, `echo '{"files_scanned":2,"ownership_depth":0,"orphans":[{"file":"a.js","line":1,"type":"signal","reason":"created but not cleaned up in destroy()"}]}'`)
	lines := ReportViaSubprocess(context.Background(), bin, "/tmp/ext", time.Second)
	if len(lines) != 2 {
		t.Fatalf("ReportViaSubprocess() = %v, want 2 lines (orphan + summary)", lines)
	}
	if !strings.HasPrefix(lines[0], "WARN|resource-tracking/orphan-signal|") {
		t.Errorf("lines[0] = %q", lines[0])
	}
}

func TestReportViaSubprocessFailureYieldsSkip(t *testing.T) {
	bin := fakeBinary(t, `echo 'boom' 1>&2; exit 1`)
	lines := ReportViaSubprocess(context.Background(), bin, "/tmp/ext", time.Second)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "SKIP|resource-tracking/ownership|") {
		t.Errorf("ReportViaSubprocess() = %v, want a single SKIP line", lines)
	}
}

func TestReportViaSubprocessTimeout(t *testing.T) {
	bin := fakeBinary(t, `sleep 2`)
	lines := ReportViaSubprocess(context.Background(), bin, "/tmp/ext", 50*time.Millisecond)
	if len(lines) != 1 || !strings.Contains(lines[0], "timed out") {
		t.Errorf("ReportViaSubprocess() = %v, want a timeout SKIP line", lines)
	}
}

func TestReportViaSubprocessMalformedJSON(t *testing.T) {
	bin := fakeBinary(t, `echo 'not json'`)
	lines := ReportViaSubprocess(context.Background(), bin, "/tmp/ext", time.Second)
	if len(lines) != 1 || !strings.Contains(lines[0], "failed to parse") {
		t.Errorf("ReportViaSubprocess() = %v, want a parse-failure SKIP line", lines)
	}
}
