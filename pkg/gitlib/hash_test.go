package gitlib_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/miermontoto/gStats/pkg/gitlib"
)

func TestHashString(t *testing.T) {
	t.Parallel()

	var h gitlib.Hash

	h[0] = 0xab
	h[19] = 0x01

	s := h.String()
	require.Len(t, s, 40)
	require.Equal(t, "ab", s[:2])
	require.Equal(t, "01", s[38:])
}

func TestHashIsZero(t *testing.T) {
	t.Parallel()

	var h gitlib.Hash

	require.True(t, h.IsZero())

	h[7] = 1
	require.False(t, h.IsZero())
}

func TestHashOidRoundTrip(t *testing.T) {
	t.Parallel()

	var h gitlib.Hash
	for i := range h {
		h[i] = byte(i * 3)
	}

	require.Equal(t, h, gitlib.HashFromOid(h.ToOid()))
}
