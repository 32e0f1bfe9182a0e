package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripANSIRemovesEscapeCodes(t *testing.T) {
	raw := "\x1b[31mred text\x1b[0m plain"
	require.Equal(t, "red text plain", StripANSI(raw))
}

func TestStripANSINoEscapesUnchanged(t *testing.T) {
	require.Equal(t, "plain text", StripANSI("plain text"))
}
