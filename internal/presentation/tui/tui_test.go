package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/stance/internal/presentation/tui"
	"github.com/aretw0/stance/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeModes(t *testing.T) {
	md := tui.DescribeModes(domain.RobotX30, []domain.ModeInfo{
		{Name: "safe_stop", Transitions: []domain.ModeName{"standby"}, Safe: true},
		{Name: "standby", Transitions: []domain.ModeName{"stand"}, Start: true, Active: true},
		{Name: "stand"},
	})
	assert.Contains(t, md, "# Control modes (x30)")
	assert.Contains(t, md, "| `standby` | start, active | `stand` |")
	assert.Contains(t, md, "| `safe_stop` | safe | `standby` |")
	assert.Contains(t, md, "| `stand` | - | - |")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer("notty")
	out, err := render("# Title\n\nbody text")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "\n"), 6)
	assert.Contains(t, buf.String(), "|___/")
}
