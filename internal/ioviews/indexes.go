package ioviews

import (
	"context"
	"fmt"

	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
	"github.com/trellisdb/trellis/pkg/lifecycle"
)

// IndexKeeper snapshots the indexes attached to an object before a
// schema mutation and best-effort restores them afterward. It converts
// "a cascading drop silently destroyed N indexes" into "N-k restored,
// k explicitly reported as lost", without corrupting the surrounding
// transaction.
type IndexKeeper struct {
	conn     db.Conn
	intro    db.Introspector
	notifier lifecycle.Notifier
}

// NewIndexKeeper creates an IndexKeeper. A nil notifier is normalized
// to a no-op.
func NewIndexKeeper(
	conn db.Conn,
	intro db.Introspector,
	notifier lifecycle.Notifier,
) *IndexKeeper {
	if notifier == nil {
		notifier = lifecycle.NopNotifier{}
	}
	return &IndexKeeper{conn: conn, intro: intro, notifier: notifier}
}

// WithPreservedIndexes captures the index definitions currently
// attached to object, runs op, and attempts to recreate each captured
// index afterward. The capture always happens before op so the
// restoration step never reads state op already changed. Failures of
// op itself propagate untouched.
func (k *IndexKeeper) WithPreservedIndexes(
	ctx context.Context,
	object string,
	op func() error,
) error {
	indexes, err := k.intro.ListIndexes(ctx, object)
	if err != nil {
		return err
	}

	if err := op(); err != nil {
		return err
	}

	for _, idx := range indexes {
		if err := k.TryCreate(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// TryCreate replays one captured index definition inside its own
// savepoint. A rejected statement is reported through the notifier and
// swallowed so the remaining indexes are still attempted; transport
// faults propagate.
func (k *IndexKeeper) TryCreate(
	ctx context.Context,
	idx catalog.Index,
) error {
	ok, err := restore(ctx, k.conn, idx.Definition)
	if err != nil {
		return err
	}
	if ok {
		k.notifier.Say(fmt.Sprintf(
			"recreated index %s on %s", idx.Name, idx.Object,
		))
		return nil
	}
	k.notifier.Say(fmt.Sprintf(
		"index %s on %s was dropped and could not be recreated with: %s",
		idx.Name, idx.Object, idx.Definition,
	))
	return nil
}
