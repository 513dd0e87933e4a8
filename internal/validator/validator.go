package validator

import (
	"fmt"
	"slices"

	"github.com/aretw0/stance/pkg/domain"
	"github.com/aretw0/stance/pkg/registry"
)

// Report lists findings that do not stop the controller from running but
// usually point at a mistake in the mode graph.
type Report struct {
	// Unreachable modes can never be activated from the start mode.
	Unreachable []domain.ModeName
	// DeadEnds are modes, other than the safe mode, that declare no
	// transitions and can only be left through a fault.
	DeadEnds []domain.ModeName
	// SafeExit is false when the safe mode declares no transition to use
	// after a release.
	SafeExit bool
}

// Warnings renders the report as human-readable lines.
func (r Report) Warnings() []string {
	var out []string
	for _, m := range r.Unreachable {
		out = append(out, fmt.Sprintf("mode %q is unreachable from the start mode", m))
	}
	for _, m := range r.DeadEnds {
		out = append(out, fmt.Sprintf("mode %q declares no transitions", m))
	}
	if !r.SafeExit {
		out = append(out, "safe mode declares no transition to leave after release")
	}
	return out
}

// ValidateGraph checks for broken links and crawls the graph from start to
// find unreachable modes. The safe mode counts as reachable from every mode
// through the fault path.
func ValidateGraph(reg *registry.Registry, start, safe domain.ModeName) (Report, error) {
	if err := reg.Validate(start, safe); err != nil {
		return Report{}, err
	}

	edges := make(map[domain.ModeName][]domain.ModeName)
	for _, e := range reg.Entries() {
		edges[e.Name] = e.Transitions
	}

	// Crawler
	visited := map[domain.ModeName]bool{start: true, safe: true}
	queue := []domain.ModeName{start, safe}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, to := range edges[current] {
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}

	var report Report
	for _, name := range reg.Names() {
		if !visited[name] {
			report.Unreachable = append(report.Unreachable, name)
		}
		if name != safe && len(edges[name]) == 0 {
			report.DeadEnds = append(report.DeadEnds, name)
		}
	}
	report.SafeExit = slices.ContainsFunc(edges[safe], func(m domain.ModeName) bool { return m != safe })
	return report, nil
}
