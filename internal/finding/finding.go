// Package finding defines the pipe-delimited line protocol every check in
// this repository emits to stdout.
package finding

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the verdict a single finding carries.
type Status string

const (
	Pass Status = "PASS"
	Warn Status = "WARN"
	Fail Status = "FAIL"
	Skip Status = "SKIP"
)

// Finding is one line of the output protocol: STATUS|RULE_ID|DETAIL, with an
// optional trailing "|fix: HINT" segment.
type Finding struct {
	Status Status
	RuleID string
	Detail string
	Fix    string
}

// New builds a Finding, escaping any "|" in Detail so the line stays
// three-or-four-field parseable by a naive split on "|".
func New(status Status, ruleID, detail string) Finding {
	return Finding{Status: status, RuleID: ruleID, Detail: escape(detail)}
}

// WithFix attaches a remediation hint to a Finding.
func (f Finding) WithFix(hint string) Finding {
	f.Fix = hint
	return f
}

// Line renders the finding in the wire format.
func (f Finding) Line() string {
	var b strings.Builder
	b.WriteString(string(f.Status))
	b.WriteByte('|')
	b.WriteString(f.RuleID)
	b.WriteByte('|')
	b.WriteString(f.Detail)
	if f.Fix != "" {
		b.WriteString("|fix: ")
		b.WriteString(f.Fix)
	}
	return b.String()
}

func escape(detail string) string {
	if !strings.Contains(detail, "|") {
		return detail
	}
	return strings.ReplaceAll(detail, "|", "/")
}

// Sentinel error families, spec §7: args/input errors, rule-internal
// failures, and subprocess/timeout failures. A missing extension directory
// or unreadable rule file is reported as a SKIP or FAIL finding line with a
// zero exit; a non-zero exit comes only from malformed arguments, rule
// validation errors, or setup failures such as the diagnostics log.
var (
	ErrArgs         = errors.New("missing or malformed arguments")
	ErrRuleInternal = errors.New("rule evaluation failed")
	ErrSubprocess   = errors.New("subprocess failed or timed out")
)

// Emitter collects findings for a single check invocation and prints them in
// the order produced, matching the source-declaration ordering requirement
// of spec §5.
type Emitter struct {
	lines []string
}

func (e *Emitter) Emit(f Finding) {
	e.lines = append(e.lines, f.Line())
}

func (e *Emitter) Emitf(status Status, ruleID, format string, args ...interface{}) {
	e.Emit(New(status, ruleID, fmt.Sprintf(format, args...)))
}

func (e *Emitter) Lines() []string {
	return e.lines
}
