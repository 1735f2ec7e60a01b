package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	flags := []Flag{
		StringFlag{},
		PathFlag{},
		IntFlag{},
		BoolFlag{},
	}

	for _, f := range flags {
		f.Flag()
	}
}

func TestFlagSet(t *testing.T) {
	fset := FlagSet{
		"name":   "alice",
		"config": "/tmp/pointers",
		"index":  2,
		"force":  true,
	}

	require.Equal(t, "alice", fset.String("name"))
	require.Equal(t, "/tmp/pointers", fset.Path("config"))
	require.Equal(t, 2, fset.Int("index"))
	require.True(t, fset.Bool("force"))

	require.Equal(t, "", fset.String("index"))
	require.Equal(t, "", fset.Path("unknown"))
	require.Equal(t, 0, fset.Int("name"))
	require.False(t, fset.Bool("unknown"))
}
