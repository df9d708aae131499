package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID", "LABEL"}, [][]string{
		{"a", "glibc-2.38"},
		{"long-id", "x"},
	})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"  ID       LABEL",
		"  ───────  ──────────",
		"  a        glibc-2.38",
		"  long-id  x",
	}, lines)
}

func TestTableSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"ID"}, nil)
	assert.Empty(t, buf.String())
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon(true))
	assert.Equal(t, "✗", StatusIcon(false))
}

func TestField(t *testing.T) {
	var buf bytes.Buffer
	Field(&buf, "nodes", 3)
	assert.Equal(t, "  nodes:     3\n", buf.String())
}
