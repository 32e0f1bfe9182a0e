package style

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestOverridesApplyLeavesZeroFieldsAtDefault(t *testing.T) {
	base := Default()
	got := Overrides{}.Apply(base)
	require.Equal(t, base.ListMatch.GetForeground(), got.ListMatch.GetForeground())
}

func TestOverridesApplyRecolorsNamedFields(t *testing.T) {
	base := Default()
	got := Overrides{ListMatchColor: "205", ErrorColor: "160"}.Apply(base)

	require.Equal(t, lipgloss.Color("205"), got.ListMatch.GetForeground())
	require.Equal(t, lipgloss.Color("160"), got.Error.GetForeground())
	require.Equal(t, base.ListSelected.GetBackground(), got.ListSelected.GetBackground())
}
