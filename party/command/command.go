// Package command defines the cli commands to manage the parties, their
// products and orders, and to resolve pointers against their vaults.
package command

import (
	"os"

	"go.dedis.ch/pointers/cli"
)

// ConfigFlag is the name of the global flag that points to the configuration
// folder holding the party directory.
const ConfigFlag = "config"

// Initializer populates the application with the party commands.
//
// - implements cli.Initializer
type Initializer struct{}

// SetCommands implements cli.Initializer.
func (i Initializer) SetCommands(provider cli.Provider) {
	a := action{
		printer: os.Stdout,
	}

	a.setCommands(provider)
}

func (a action) setCommands(provider cli.Provider) {
	txFlags := []cli.Flag{
		cli.StringFlag{
			Name:     "tx",
			Usage:    "identifier of the transaction in hexadecimal",
			Required: true,
		},
		cli.IntFlag{
			Name:  "index",
			Usage: "index of the output in the transaction",
		},
	}

	partyCmd := provider.SetCommand("party")
	partyCmd.SetDescription("manage the parties")

	sub := partyCmd.SetSubCommand("new")
	sub.SetDescription("create a new party with a fresh key and an empty vault")
	sub.SetFlags(cli.StringFlag{
		Name:     "name",
		Usage:    "name of the party",
		Required: true,
	})
	sub.SetAction(a.newPartyAction)

	sub = partyCmd.SetSubCommand("list")
	sub.SetDescription("list the parties and their public keys")
	sub.SetAction(a.listPartiesAction)

	productCmd := provider.SetCommand("product")
	productCmd.SetDescription("record product transactions")

	sub = productCmd.SetSubCommand("create")
	sub.SetDescription("create a product owned by the party")
	sub.SetFlags(
		cli.StringFlag{Name: "party", Usage: "owner of the product", Required: true},
		cli.StringFlag{Name: "name", Usage: "name of the product", Required: true},
		cli.StringFlag{Name: "company", Usage: "manufacturer", Required: true},
		cli.StringFlag{Name: "price", Usage: "decimal price", Required: true},
	)
	sub.SetAction(a.createProductAction)

	sub = productCmd.SetSubCommand("update")
	sub.SetDescription("update the price of a product")
	sub.SetFlags(append([]cli.Flag{
		cli.StringFlag{Name: "party", Usage: "owner of the product", Required: true},
		cli.StringFlag{Name: "price", Usage: "new decimal price", Required: true},
	}, txFlags...)...)
	sub.SetAction(a.updateProductAction)

	orderCmd := provider.SetCommand("order")
	orderCmd.SetDescription("record order transactions")

	sub = orderCmd.SetSubCommand("create")
	sub.SetDescription("create an order pointing to a version of a product")
	sub.SetFlags(append([]cli.Flag{
		cli.StringFlag{Name: "consumer", Usage: "party placing the order", Required: true},
		cli.StringFlag{Name: "owner", Usage: "owner of the product", Required: true},
	}, txFlags...)...)
	sub.SetAction(a.createOrderAction)

	pointerCmd := provider.SetCommand("pointer")
	pointerCmd.SetDescription("work with static pointers")

	sub = pointerCmd.SetSubCommand("resolve")
	sub.SetDescription("resolve a pointer against the vault of a party")
	sub.SetFlags(append([]cli.Flag{
		cli.StringFlag{Name: "party", Usage: "party resolving the pointer", Required: true},
		cli.StringFlag{Name: "kind", Usage: "expected kind of the state", Value: "product"},
	}, txFlags...)...)
	sub.SetAction(a.resolvePointerAction)

	txCmd := provider.SetCommand("tx")
	txCmd.SetDescription("work with the transactions of the vaults")

	sub = txCmd.SetSubCommand("send")
	sub.SetDescription("copy a transaction to the vault of another party")
	sub.SetFlags(
		cli.StringFlag{Name: "from", Usage: "party holding the transaction", Required: true},
		cli.StringFlag{Name: "to", Usage: "recipient party", Required: true},
		txFlags[0],
	)
	sub.SetAction(a.sendTxAction)

	sub = txCmd.SetSubCommand("show")
	sub.SetDescription("print a transaction of the vault in JSON")
	sub.SetFlags(
		cli.StringFlag{Name: "party", Usage: "party holding the transaction", Required: true},
		txFlags[0],
	)
	sub.SetAction(a.showTxAction)
}
