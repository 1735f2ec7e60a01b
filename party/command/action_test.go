package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/pointers/cli"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/party"
	"golang.org/x/xerrors"
)

func TestAction_Scenario(t *testing.T) {
	cfg := t.TempDir()

	buf := new(bytes.Buffer)
	a := action{printer: buf}

	require.NoError(t, a.newPartyAction(cli.FlagSet{ConfigFlag: cfg, "name": "alice"}))
	require.NoError(t, a.newPartyAction(cli.FlagSet{ConfigFlag: cfg, "name": "bob"}))
	require.Contains(t, buf.String(), "alice\ted25519:")
	require.Contains(t, buf.String(), "bob\ted25519:")

	buf.Reset()
	require.NoError(t, a.listPartiesAction(cli.FlagSet{ConfigFlag: cfg}))
	require.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 2)

	productID := run(t, buf, a.createProductAction, cli.FlagSet{
		ConfigFlag: cfg,
		"party":    "alice",
		"name":     "Hummer",
		"company":  "GM",
		"price":    "1.0",
	})

	run(t, buf, a.createOrderAction, cli.FlagSet{
		ConfigFlag: cfg,
		"consumer": "bob",
		"owner":    "alice",
		"tx":       productID,
	})

	resolveFlags := cli.FlagSet{
		ConfigFlag: cfg,
		"party":    "bob",
		"kind":     "product",
		"tx":       productID,
	}

	err := a.resolvePointerAction(resolveFlags)
	require.True(t, xerrors.As(err, new(*pointer.ResolutionError)))

	run(t, buf, a.sendTxAction, cli.FlagSet{
		ConfigFlag: cfg,
		"from":     "alice",
		"to":       "bob",
		"tx":       productID,
	})

	out := run(t, buf, a.resolvePointerAction, resolveFlags)
	require.Contains(t, out, "Hummer (GM) at 1")

	updateFlags := cli.FlagSet{
		ConfigFlag: cfg,
		"party":    "alice",
		"price":    "1.0",
		"tx":       productID,
	}

	err = a.updateProductAction(updateFlags)
	require.True(t, xerrors.As(err, new(*party.RejectionError)))

	updateFlags["price"] = "2.0"
	updateID := run(t, buf, a.updateProductAction, updateFlags)

	// The pointer still designates the first version of the product.
	resolveFlags["party"] = "alice"
	out = run(t, buf, a.resolvePointerAction, resolveFlags)
	require.Contains(t, out, "Hummer (GM) at 1")

	resolveFlags["tx"] = updateID
	out = run(t, buf, a.resolvePointerAction, resolveFlags)
	require.Contains(t, out, "Hummer (GM) at 2")

	out = run(t, buf, a.showTxAction, cli.FlagSet{
		ConfigFlag: cfg,
		"party":    "alice",
		"tx":       updateID,
	})
	require.Contains(t, out, "Hummer")
	require.Contains(t, out, productID)
}

func TestAction_NewPartyFailures(t *testing.T) {
	cfg := t.TempDir()
	a := action{printer: new(bytes.Buffer)}

	flags := cli.FlagSet{ConfigFlag: cfg, "name": "alice"}
	require.NoError(t, a.newPartyAction(flags))

	err := a.newPartyAction(flags)
	require.EqualError(t, err, "failed to create party: party 'alice' already exists")

	err = os.WriteFile(filepath.Join(cfg, DirectoryFile), []byte("parties: {"), 0600)
	require.NoError(t, err)

	err = a.newPartyAction(flags)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to open session: malformed directory: ")
}

func TestAction_Failures(t *testing.T) {
	cfg := t.TempDir()
	a := action{printer: new(bytes.Buffer)}

	require.NoError(t, a.newPartyAction(cli.FlagSet{ConfigFlag: cfg, "name": "alice"}))

	err := a.createProductAction(cli.FlagSet{ConfigFlag: cfg, "price": "abc"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid price: ")

	err = a.createProductAction(cli.FlagSet{ConfigFlag: cfg, "party": "carol", "price": "1"})
	require.EqualError(t, err, "failed to open party: unknown party 'carol'")

	err = a.updateProductAction(cli.FlagSet{ConfigFlag: cfg, "price": "1", "tx": "zz"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid tx: ")

	err = a.createOrderAction(cli.FlagSet{
		ConfigFlag: cfg,
		"tx":       strings.Repeat("ab", 32),
		"index":    -1,
	})
	require.EqualError(t, err, "invalid index -1")

	err = a.createOrderAction(cli.FlagSet{
		ConfigFlag: cfg,
		"tx":       strings.Repeat("ab", 32),
		"consumer": "alice",
		"owner":    "carol",
	})
	require.EqualError(t, err, "failed to open owner: unknown party 'carol'")

	err = a.sendTxAction(cli.FlagSet{
		ConfigFlag: cfg,
		"tx":       strings.Repeat("ab", 32),
		"from":     "alice",
		"to":       "alice",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to send: failed to read tx: ")

	err = a.showTxAction(cli.FlagSet{ConfigFlag: cfg, "tx": "ab"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid tx: ")

	err = a.showTxAction(cli.FlagSet{
		ConfigFlag: cfg,
		"party":    "alice",
		"tx":       strings.Repeat("ab", 32),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read tx: ")
}

func TestLoadDirectory_Missing(t *testing.T) {
	dir, err := loadDirectory(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	require.Empty(t, dir.Parties)
}

// -----------------------------------------------------------------------------
// Utility functions

// run executes the action and returns what it printed.
func run(t *testing.T, buf *bytes.Buffer, fn cli.Action, flags cli.Flags) string {
	buf.Reset()

	err := fn(flags)
	require.NoError(t, err)

	return strings.TrimSpace(buf.String())
}
