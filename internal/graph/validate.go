package graph

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Severity ranks a structural problem.
type Severity string

const (
	// SeverityError marks a script that cannot run correctly.
	SeverityError Severity = "error"

	// SeverityWarning marks an authoring hazard. The script still runs.
	SeverityWarning Severity = "warning"
)

// Problem is one finding of Validate.
type Problem struct {
	Severity Severity
	Box      BoxID // 0 for script-wide findings
	Kind     Kind
	Message  string
}

func (p *Problem) Error() string {
	if p.Box == 0 {
		return fmt.Sprintf("%s: %s", p.Severity, p.Message)
	}
	return fmt.Sprintf("%s: %s#%d: %s", p.Severity, p.Kind, p.Box, p.Message)
}

// Validate checks the structure of s and returns every problem found as a
// *multierror.Error of *Problem values, or nil.
//
// Warnings: duplicate Subroutine names (the first in script order wins at
// run time), Invoke names with no Subroutine, no Start box.
//
// Errors: a link to a box outside the script or to a port that is not a
// server port. Unmarshal and the Script edit methods never leave such a
// link behind, so an error here means the link invariant was broken.
func Validate(s *Script) error {
	var result *multierror.Error
	add := func(sev Severity, b *Box, format string, args ...any) {
		p := &Problem{Severity: sev, Message: fmt.Sprintf(format, args...)}
		if b != nil {
			p.Box, p.Kind = b.id, b.kind
		}
		result = multierror.Append(result, p)
	}

	firstByName := make(map[string]*Box)
	for _, b := range s.boxes {
		for i, n := range b.nodes {
			ref, ok := n.Link()
			if !ok {
				continue
			}
			if _, err := s.serverID(ref); err != nil {
				add(SeverityError, b, "port %s (%d): dangling link: %v", n.name, i, err)
			}
		}
		if b.kind == KindSubroutine {
			if first, dup := firstByName[b.name]; dup {
				add(SeverityWarning, b, "duplicate Subroutine name %q; %s#%d is used", b.name, first.kind, first.id)
			} else {
				firstByName[b.name] = b
			}
		}
	}

	for _, b := range s.boxes {
		if b.kind == KindInvoke {
			if _, ok := firstByName[b.name]; !ok {
				add(SeverityWarning, b, "no Subroutine named %q", b.name)
			}
		}
	}

	if len(s.Starts()) == 0 {
		add(SeverityWarning, nil, "script has no Start box")
	}

	return result.ErrorOrNil()
}

// Problems flattens the result of Validate.
func Problems(err error) []*Problem {
	var out []*Problem
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			var p *Problem
			if errors.As(e, &p) {
				out = append(out, p)
			}
		}
		return out
	}
	var p *Problem
	if errors.As(err, &p) {
		out = append(out, p)
	}
	return out
}

// HasErrors reports whether any problem in err has error severity.
func HasErrors(err error) bool {
	for _, p := range Problems(err) {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
