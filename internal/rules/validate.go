package rules

import (
	"fmt"
	"regexp"

	"github.com/ZviBaratz/gnome-extension-reviewer/internal/finding"
)

// validSeverities is the rule store's own severity vocabulary (spec §4.2/§6),
// checked against the raw, unmapped value — not the FAIL/WARN status word
// severityStatusWord derives from it — so e.g. `severity: warn` is correctly
// rejected rather than accepted because it happens to collide with a status
// word (apply-patterns.py's validate_rules checks the same raw strings).
var validSeverities = map[string]bool{
	"blocking": true, "advisory": true,
}

// ValidationError describes one problem found with a rule.
type ValidationError struct {
	RuleID string
	Detail string
}

// Validate checks a loaded rule set for the errors the original validator
// catches: missing required fields, duplicate IDs, an unrecognized severity,
// and a pattern that does not compile as a regex. Unknown top-level keys are
// reported separately as advisories, never as errors (Open Question #2).
func Validate(rs []Rule) (errs []ValidationError, advisories []string) {
	seen := map[string]bool{}

	for i, r := range rs {
		label := r.ID
		if label == "" {
			label = fmt.Sprintf("rule#%d", i)
		}

		if r.ID == "" {
			errs = append(errs, ValidationError{label, "missing required field: id"})
		}
		if r.Scope == "" {
			errs = append(errs, ValidationError{label, "missing required field: scope"})
		}
		if r.Pattern == "" {
			errs = append(errs, ValidationError{label, "missing required field: pattern"})
		}
		if r.RawSeverity == "" {
			errs = append(errs, ValidationError{label, "missing required field: severity"})
		} else if !validSeverities[r.RawSeverity] {
			errs = append(errs, ValidationError{label, fmt.Sprintf("invalid severity %q (must be 'blocking' or 'advisory')", r.RawSeverity)})
		}

		if r.ID != "" {
			if seen[r.ID] {
				errs = append(errs, ValidationError{label, "duplicate rule id"})
			}
			seen[r.ID] = true
		}

		if r.Pattern != "" {
			if _, err := regexp.Compile(r.Pattern); err != nil {
				errs = append(errs, ValidationError{label, fmt.Sprintf("invalid regex: %v", err)})
			}
		}

		for k := range r.Unknown {
			advisories = append(advisories, fmt.Sprintf("%s: unrecognized key %q ignored", label, k))
		}
	}

	return errs, advisories
}

// Report renders Validate's result as the finding lines the validator mode
// (spec §6 --validate) prints, matching the original's
// "OK: N rules validated" / "N error(s) found in M rules" summary contract.
func Report(rs []Rule) []string {
	errs, advisories := Validate(rs)

	var lines []string
	for _, a := range advisories {
		lines = append(lines, finding.New(finding.Warn, "rules/unknown-key", a).Line())
	}

	if len(errs) == 0 {
		lines = append(lines, finding.New(finding.Pass, "rules/validate",
			fmt.Sprintf("OK: %d rules validated", len(rs))).Line())
		return lines
	}

	affected := map[string]bool{}
	for _, e := range errs {
		lines = append(lines, finding.New(finding.Fail, "rules/validate",
			fmt.Sprintf("%s: %s", e.RuleID, e.Detail)).Line())
		affected[e.RuleID] = true
	}
	lines = append(lines, finding.New(finding.Fail, "rules/validate",
		fmt.Sprintf("%d error(s) found in %d rules", len(errs), len(affected))).Line())
	return lines
}
