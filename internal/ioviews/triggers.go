package ioviews

import (
	"context"
	"fmt"

	"github.com/trellisdb/trellis/pkg/catalog"
	"github.com/trellisdb/trellis/pkg/db"
	"github.com/trellisdb/trellis/pkg/lifecycle"
)

// TriggerKeeper is the IndexKeeper's counterpart for triggers. Trigger
// DDL is synthesized from the captured descriptor, never read back from
// the database, so a restored trigger cannot drift from its snapshot.
type TriggerKeeper struct {
	conn     db.Conn
	intro    db.Introspector
	notifier lifecycle.Notifier
}

// NewTriggerKeeper creates a TriggerKeeper. A nil notifier is
// normalized to a no-op.
func NewTriggerKeeper(
	conn db.Conn,
	intro db.Introspector,
	notifier lifecycle.Notifier,
) *TriggerKeeper {
	if notifier == nil {
		notifier = lifecycle.NopNotifier{}
	}
	return &TriggerKeeper{conn: conn, intro: intro, notifier: notifier}
}

// On captures the triggers currently attached to object, runs op, and
// attempts to recreate each captured trigger afterward. The capture
// always happens before op, regardless of what op does.
func (k *TriggerKeeper) On(
	ctx context.Context,
	object string,
	op func() error,
) error {
	triggers, err := k.intro.ListTriggers(ctx, object)
	if err != nil {
		return err
	}

	if err := op(); err != nil {
		return err
	}

	for _, trg := range triggers {
		if err := k.TryCreate(ctx, trg); err != nil {
			return err
		}
	}
	return nil
}

// TryCreate replays one captured trigger inside its own savepoint. It
// is also called directly by the updater, which holds a trigger
// snapshot captured across an entire multi-view cascade rather than a
// single object. Rejected statements are reported and swallowed;
// transport faults propagate.
func (k *TriggerKeeper) TryCreate(
	ctx context.Context,
	trg catalog.Trigger,
) error {
	ok, err := restore(ctx, k.conn, trg.Definition(k.conn.QuoteIdent))
	if err != nil {
		return err
	}
	if ok {
		k.notifier.Say(fmt.Sprintf(
			"recreated trigger %s on %s", trg.Name, trg.Table,
		))
		return nil
	}
	k.notifier.Say(fmt.Sprintf(
		"trigger %s on %s was dropped and could not be recreated",
		trg.Name, trg.Table,
	))
	return nil
}
