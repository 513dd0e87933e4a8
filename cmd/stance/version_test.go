package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	assert.Contains(t, out, "stance version 0.1.0")
	assert.Contains(t, out, "robots:   lite3, x30")
	assert.Contains(t, out, "modes:    safe_stop, stand, standby, walk")
}
