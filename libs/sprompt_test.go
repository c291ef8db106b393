package libs

import (
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestReadLine(t *testing.T) {
	bz, err := readLine(strings.NewReader("  my secret \nnext line"))
	require.NoError(t, err)
	require.Equal(t, "my secret", string(bz))

	bz, err = readLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	require.Equal(t, "no newline", string(bz))

	c := []byte("secret")
	ClearCredential(c)
	require.Equal(t, make([]byte, 6), c)
}
