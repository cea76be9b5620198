package hexconv

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHalfbyte(t *testing.T) {
	for c := range 256 {
		want, err := strconv.ParseUint(string(rune(c)), 16, 8)
		if err != nil {
			require.Equal(t, byte(0xFF), Halfbyte[c], "char %q", rune(c))
			continue
		}

		require.Equal(t, byte(want), Halfbyte[c], "char %q", rune(c))
	}
}
