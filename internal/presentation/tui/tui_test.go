package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/riseflow/internal/presentation/tui"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePill(t *testing.T) {
	for _, r := range domain.Roles {
		assert.Contains(t, tui.RolePill(r), r.String())
	}
}

func TestNewRenderer(t *testing.T) {
	render := tui.NewRenderer(60)
	out, err := render("# Classroom Teacher – Start\n\n- Seating plan")
	require.NoError(t, err)
	assert.Contains(t, out, "Seating plan")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0")
	assert.True(t, strings.Contains(buf.String(), "Whole School Behaviour Flow 0.1.0"))
}
