// Package validator checks interceptor records against the action vocabulary
// before they are applied.
package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/priceflex/intercept/pkg/domain"
	"github.com/priceflex/intercept/pkg/ports"
)

// Issue is one problem found in a record.
type Issue struct {
	Record  string
	Binding string
	Message string
}

func (i Issue) String() string {
	if i.Binding != "" {
		return fmt.Sprintf("%s: binding %q: %s", i.Record, i.Binding, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Record, i.Message)
}

// Report summarizes one validation run.
type Report struct {
	// Records counts the records inspected, disabled ones included.
	Records int

	// Bindings counts the binding entries inspected.
	Bindings int

	Issues []Issue
}

// OK reports whether the run found no problems.
func (r *Report) OK() bool { return len(r.Issues) == 0 }

// Err aggregates the issues into a single error, or nil for a clean report.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	lines := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		lines = append(lines, issue.String())
	}
	return fmt.Errorf("found %d problems:\n- %s", len(r.Issues), strings.Join(lines, "\n- "))
}

// Validate inspects every record from src. Binding names must parse against
// the action vocabulary and handler refs must be non-empty; when refs is
// non-nil each ref must also appear in it. Duplicate (action, phase) claims
// across enabled records are reported: the registry resolves them by policy
// at apply time, but they usually signal a copy-paste mistake.
//
// Disabled records are validated too, so a record can be checked before it
// is switched on.
func Validate(ctx context.Context, src ports.RecordSource, actions *domain.ActionSet, refs []string) (*Report, error) {
	records, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	var known map[string]bool
	if refs != nil {
		known = make(map[string]bool, len(refs))
		for _, ref := range refs {
			known[ref] = true
		}
	}

	report := &Report{}
	claims := make(map[string]string) // action/phase -> first enabled record

	for _, rec := range records {
		report.Records++

		names := make([]string, 0, len(rec.Bindings))
		for name := range rec.Bindings {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			report.Bindings++
			ref := rec.Bindings[name]

			action, phase, err := actions.ParseBindingName(name)
			if err != nil {
				report.Issues = append(report.Issues, Issue{
					Record:  rec.Name,
					Binding: name,
					Message: "does not match any known action",
				})
				continue
			}

			switch {
			case ref == "":
				report.Issues = append(report.Issues, Issue{
					Record:  rec.Name,
					Binding: name,
					Message: "empty handler ref",
				})
			case known != nil && !known[ref]:
				report.Issues = append(report.Issues, Issue{
					Record:  rec.Name,
					Binding: name,
					Message: fmt.Sprintf("unknown handler ref %q", ref),
				})
			}

			if !rec.Enabled {
				continue
			}
			key := string(action) + "/" + string(phase)
			if first, ok := claims[key]; ok {
				report.Issues = append(report.Issues, Issue{
					Record:  rec.Name,
					Binding: name,
					Message: fmt.Sprintf("%s %s already claimed by %s", phase, action, first),
				})
				continue
			}
			claims[key] = rec.Name
		}
	}

	return report, nil
}
