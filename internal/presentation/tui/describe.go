package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stance/pkg/domain"
)

// DescribeModes renders the mode registry as a markdown document.
func DescribeModes(robot domain.RobotType, modes []domain.ModeInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Control modes (%s)\n\n", robot)
	sb.WriteString("| Mode | Role | Transitions |\n")
	sb.WriteString("|------|------|-------------|\n")
	for _, m := range modes {
		var roles []string
		if m.Start {
			roles = append(roles, "start")
		}
		if m.Safe {
			roles = append(roles, "safe")
		}
		if m.Active {
			roles = append(roles, "active")
		}
		role := strings.Join(roles, ", ")
		if role == "" {
			role = "-"
		}

		targets := make([]string, 0, len(m.Transitions))
		for _, to := range m.Transitions {
			targets = append(targets, "`"+string(to)+"`")
		}
		trans := strings.Join(targets, " ")
		if trans == "" {
			trans = "-"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", m.Name, role, trans)
	}
	sb.WriteString("\nAny mode may be forced into the safe mode when it loses control or a tick overruns its period.\n")
	return sb.String()
}
