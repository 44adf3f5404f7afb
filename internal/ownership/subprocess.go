package ownership

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
)

// GraphJSON is the serializable form of a built ownership graph, emitted by
// `ego-lint resource-graph` for out-of-process consumption.
type GraphJSON struct {
	FilesScanned int      `json:"files_scanned"`
	Depth        int      `json:"ownership_depth"`
	Orphans      []Orphan `json:"orphans"`
}

// ReportViaSubprocess runs the resource-tracking check by delegating graph
// construction to a sibling invocation of the same binary
// ("ego-lint resource-graph --json"), enforcing the fixed wall-clock timeout
// and bounded, truncated stderr capture the subprocess boundary requires
// (spec §5). No retries: a single failed or timed-out attempt is reported as
// a single SKIP summary line and yields no orphan findings for this run
// (spec §7).
func ReportViaSubprocess(ctx context.Context, binaryPath, extDir string, timeout time.Duration) []string {
	e := &finding.Emitter{}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, binaryPath, "resource-graph", "--json", extDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if cctx.Err() == context.DeadlineExceeded {
		e.Emitf(finding.Skip, "resource-tracking/ownership",
			"resource-graph subprocess timed out after %s", timeout)
		return e.Lines()
	}
	if err != nil {
		e.Emitf(finding.Skip, "resource-tracking/ownership",
			"resource-graph subprocess failed: %s", truncate(stderr.String(), 200))
		return e.Lines()
	}

	var graph GraphJSON
	if err := json.Unmarshal(stdout.Bytes(), &graph); err != nil {
		e.Emitf(finding.Skip, "resource-tracking/ownership",
			"failed to parse resource-graph JSON: %v", err)
		return e.Lines()
	}

	for _, o := range graph.Orphans {
		id, detail := ClassifyOrphan(o)
		e.Emit(finding.New(finding.Warn, id, detail))
	}

	if len(graph.Orphans) == 0 {
		e.Emitf(finding.Pass, "resource-tracking/ownership",
			"%d files scanned, depth %d, 0 orphans", graph.FilesScanned, graph.Depth)
	} else {
		plural := "s"
		if len(graph.Orphans) == 1 {
			plural = ""
		}
		e.Emitf(finding.Warn, "resource-tracking/ownership",
			"%d files scanned, depth %d, %d orphan%s detected", graph.FilesScanned, graph.Depth, len(graph.Orphans), plural)
	}

	return e.Lines()
}

func truncate(s string, n int) string {
	s = compactNewlines(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func compactNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, ' ')
		} else {
			out = append(out, s[i])
		}
	}
	return out
}
