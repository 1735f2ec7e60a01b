package command

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"go.dedis.ch/pointers/cli"
	"go.dedis.ch/pointers/contracts/order"
	"go.dedis.ch/pointers/contracts/product"
	"go.dedis.ch/pointers/core/ledger"
	"go.dedis.ch/pointers/core/ledger/tx"
	"go.dedis.ch/pointers/core/pointer"
	"go.dedis.ch/pointers/crypto"
	"go.dedis.ch/pointers/party"
	"go.dedis.ch/pointers/serde/json"
	"golang.org/x/xerrors"
)

// action defines the different cli actions of the party commands. Each action
// opens the parties it needs from the configuration folder and closes them
// before returning.
type action struct {
	printer io.Writer
}

func (a action) withSession(flags cli.Flags, fn func(*session) error) error {
	s, err := openSession(flags.Path(ConfigFlag))
	if err != nil {
		return xerrors.Errorf("failed to open session: %v", err)
	}

	err = fn(s)

	closeErr := s.Close()
	if err != nil {
		return err
	}

	return closeErr
}

func (a action) newPartyAction(flags cli.Flags) error {
	return a.withSession(flags, func(s *session) error {
		p, err := s.create(flags.String("name"))
		if err != nil {
			return xerrors.Errorf("failed to create party: %v", err)
		}

		return a.printPublicKey(p.GetName(), p.GetPublicKey())
	})
}

func (a action) listPartiesAction(flags cli.Flags) error {
	return a.withSession(flags, func(s *session) error {
		for _, e := range s.dir.Parties {
			p, err := s.get(e.Name)
			if err != nil {
				return xerrors.Errorf("failed to open party: %v", err)
			}

			err = a.printPublicKey(p.GetName(), p.GetPublicKey())
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (a action) printPublicKey(name string, pk crypto.PublicKey) error {
	text, err := pk.MarshalText()
	if err != nil {
		return xerrors.Errorf("failed to marshal public key: %v", err)
	}

	fmt.Fprintf(a.printer, "%s\t%s\n", name, text)

	return nil
}

func (a action) createProductAction(flags cli.Flags) error {
	price, err := decimal.NewFromString(flags.String("price"))
	if err != nil {
		return xerrors.Errorf("invalid price: %v", err)
	}

	return a.withSession(flags, func(s *session) error {
		owner, err := s.get(flags.String("party"))
		if err != nil {
			return xerrors.Errorf("failed to open party: %v", err)
		}

		p := product.NewProduct(flags.String("name"), flags.String("company"),
			price, owner.GetPublicKey())

		created, err := tx.NewBuilder().
			AddOutput(p).
			AddCommand(product.Create{}, owner.GetPublicKey()).
			Build()
		if err != nil {
			return xerrors.Errorf("failed to build tx: %v", err)
		}

		err = owner.Record(created)
		if err != nil {
			return xerrors.Errorf("failed to record: %w", err)
		}

		fmt.Fprintln(a.printer, created.GetID().Hex())

		return nil
	})
}

func (a action) updateProductAction(flags cli.Flags) error {
	price, err := decimal.NewFromString(flags.String("price"))
	if err != nil {
		return xerrors.Errorf("invalid price: %v", err)
	}

	ref, err := refFromFlags(flags)
	if err != nil {
		return err
	}

	return a.withSession(flags, func(s *session) error {
		owner, err := s.get(flags.String("party"))
		if err != nil {
			return xerrors.Errorf("failed to open party: %v", err)
		}

		res, err := owner.Resolve(pointer.NewStaticPointer(ref, product.Kind))
		if err != nil {
			return xerrors.Errorf("failed to resolve input: %w", err)
		}

		input := res.GetState().(product.Product)

		updated, err := tx.NewBuilder().
			AddInput(ref).
			AddOutput(input.WithPrice(price)).
			AddCommand(product.UpdatePrice{}, owner.GetPublicKey()).
			Build()
		if err != nil {
			return xerrors.Errorf("failed to build tx: %v", err)
		}

		err = owner.Record(updated)
		if err != nil {
			return xerrors.Errorf("failed to record: %w", err)
		}

		fmt.Fprintln(a.printer, updated.GetID().Hex())

		return nil
	})
}

func (a action) createOrderAction(flags cli.Flags) error {
	ref, err := refFromFlags(flags)
	if err != nil {
		return err
	}

	return a.withSession(flags, func(s *session) error {
		consumer, err := s.get(flags.String("consumer"))
		if err != nil {
			return xerrors.Errorf("failed to open consumer: %v", err)
		}

		owner, err := s.get(flags.String("owner"))
		if err != nil {
			return xerrors.Errorf("failed to open owner: %v", err)
		}

		o := order.NewOrder(consumer.GetPublicKey(), owner.GetPublicKey(),
			pointer.NewStaticPointer(ref, product.Kind))

		created, err := tx.NewBuilder().
			AddOutput(o).
			AddCommand(order.Create{}, consumer.GetPublicKey(), owner.GetPublicKey()).
			Build()
		if err != nil {
			return xerrors.Errorf("failed to build tx: %v", err)
		}

		// Both participants record the order, but only the owner knows the
		// product it points to.
		parties := []*party.Party{consumer}
		if owner != consumer {
			parties = append(parties, owner)
		}

		for _, p := range parties {
			err = p.Record(created)
			if err != nil {
				return xerrors.Errorf("%s failed to record: %w", p.GetName(), err)
			}
		}

		fmt.Fprintln(a.printer, created.GetID().Hex())

		return nil
	})
}

func (a action) resolvePointerAction(flags cli.Flags) error {
	ref, err := refFromFlags(flags)
	if err != nil {
		return err
	}

	ptr := pointer.NewStaticPointer(ref, ledger.Kind(flags.String("kind")))

	return a.withSession(flags, func(s *session) error {
		p, err := s.get(flags.String("party"))
		if err != nil {
			return xerrors.Errorf("failed to open party: %v", err)
		}

		res, err := p.Resolve(ptr)
		if err != nil {
			return xerrors.Errorf("failed to resolve %v: %w", ptr, err)
		}

		fmt.Fprintln(a.printer, res.GetState())

		return nil
	})
}

func (a action) sendTxAction(flags cli.Flags) error {
	id, err := ledger.DigestFromHex(flags.String("tx"))
	if err != nil {
		return xerrors.Errorf("invalid tx: %v", err)
	}

	return a.withSession(flags, func(s *session) error {
		from, err := s.get(flags.String("from"))
		if err != nil {
			return xerrors.Errorf("failed to open sender: %v", err)
		}

		to, err := s.get(flags.String("to"))
		if err != nil {
			return xerrors.Errorf("failed to open recipient: %v", err)
		}

		err = from.Send(id, to)
		if err != nil {
			return xerrors.Errorf("failed to send: %w", err)
		}

		return nil
	})
}

func (a action) showTxAction(flags cli.Flags) error {
	id, err := ledger.DigestFromHex(flags.String("tx"))
	if err != nil {
		return xerrors.Errorf("invalid tx: %v", err)
	}

	return a.withSession(flags, func(s *session) error {
		p, err := s.get(flags.String("party"))
		if err != nil {
			return xerrors.Errorf("failed to open party: %v", err)
		}

		t, err := p.GetVault().Get(id)
		if err != nil {
			return xerrors.Errorf("failed to read tx: %w", err)
		}

		data, err := t.Serialize(json.NewContext())
		if err != nil {
			return xerrors.Errorf("failed to serialize: %v", err)
		}

		fmt.Fprintln(a.printer, string(data))

		return nil
	})
}

func refFromFlags(flags cli.Flags) (ledger.Ref, error) {
	id, err := ledger.DigestFromHex(flags.String("tx"))
	if err != nil {
		return ledger.Ref{}, xerrors.Errorf("invalid tx: %v", err)
	}

	index := flags.Int("index")
	if index < 0 {
		return ledger.Ref{}, xerrors.Errorf("invalid index %d", index)
	}

	return ledger.NewRef(id, uint32(index)), nil
}
