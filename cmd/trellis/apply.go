package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trellisdb/trellis/internal/iocatalog"
	"github.com/trellisdb/trellis/internal/iodb"
	"github.com/trellisdb/trellis/internal/ioviews"
	"github.com/trellisdb/trellis/pkg/config"
	"github.com/trellisdb/trellis/pkg/db"
	"github.com/trellisdb/trellis/pkg/lifecycle"
	"github.com/trellisdb/trellis/pkg/logger"
	"github.com/trellisdb/trellis/pkg/plan"
)

// getApplyCmd returns the command that applies a views.yaml plan.
func getApplyCmd() *cobra.Command {
	var planFile string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "apply a views.yaml plan to the database",
		Long: `Apply a declarative plan of views and materialized views.

Plan entries are applied in file order, so base views must come before
views that select from them. Views that do not exist yet are created;
views that already exist are updated cascade-safely when the entry
asks for cascade. Indexes listed on an entry are created when its
materialized view is created; an existing view keeps the indexes it
already has.

The whole plan runs in one transaction: if any entry fails, the
database is left exactly as it was.

The manifest written by ` + "`trellis dump`" + ` is a valid plan, so a dump can
be applied back to the same database or to a fresh one.

Examples:

  trellis apply
  trellis apply --plan db/views/views.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configWithFlags(cmd)
			if err != nil {
				return err
			}

			path := planFile
			if path == "" {
				path = cfg.Views.PlanFile
			}

			return runApply(cfg, path)
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "",
		"plan file (default: views.plan_file from config)")
	addDatabaseFlags(cmd)

	return cmd
}

func runApply(cfg *config.Config, path string) error {
	p, err := plan.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load plan %s: %w", path, err)
	}

	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	sess, err := op.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sess.Rollback(ctx)

	intro := iocatalog.New(sess)
	manager := ioviews.NewViewUpdater(
		sess, intro, logger.NewNotifier(logger.New(&cfg.Log)),
	)

	existing, err := intro.ListViews(ctx)
	if err != nil {
		return fmt.Errorf("failed to list existing views: %w", err)
	}
	materialized := make(map[string]bool, len(existing))
	for _, v := range existing {
		materialized[v.Name] = v.Materialized
	}

	bar := newProgressBar(len(p.Views), "apply")
	var created, updated int
	for _, e := range p.Views {
		action, err := applyEntry(ctx, sess, manager, materialized, e)
		if err != nil {
			bar.Finish()
			return fmt.Errorf("failed to apply %s: %w", e.Name, err)
		}
		if action == actionCreated {
			created++
		} else {
			updated++
		}
		bar.Increment()
	}
	bar.Finish()

	if err = sess.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit plan: %w", err)
	}

	fmt.Printf("✓ Applied %d views from %s (%d created, %d updated)\n",
		len(p.Views), path, created, updated)
	return nil
}

type applyAction int

const (
	actionCreated applyAction = iota
	actionUpdated
)

// applyEntry creates or updates one plan entry. The materialized map
// reflects the catalog as of the start of the transaction and decides
// between the create and update paths.
func applyEntry(
	ctx context.Context,
	sess db.Session,
	manager lifecycle.ViewManager,
	materialized map[string]bool,
	e plan.Entry,
) (applyAction, error) {
	def := plan.NormalizeDefinition(e.Definition)
	isMat, exists := materialized[e.Name]

	if !exists {
		if e.Materialized {
			if err := manager.CreateMaterializedView(ctx, e.Name, def); err != nil {
				return 0, err
			}
			for _, idx := range e.Indexes {
				if err := sess.Exec(ctx, idx); err != nil {
					return 0, fmt.Errorf("failed to create index: %w", err)
				}
			}
			return actionCreated, nil
		}

		if err := manager.CreateView(ctx, e.Name, def, false); err != nil {
			return 0, err
		}
		return actionCreated, nil
	}

	if isMat != e.Materialized {
		return 0, fmt.Errorf(
			"already exists as a %s; drop it first or fix the plan entry",
			viewKind(isMat),
		)
	}

	if e.Materialized {
		if err := manager.UpdateMaterializedView(ctx, e.Name, def, e.Cascade); err != nil {
			return 0, err
		}
		return actionUpdated, nil
	}

	if err := manager.UpdateView(ctx, e.Name, def, e.Cascade); err != nil {
		return 0, err
	}
	return actionUpdated, nil
}

func viewKind(materialized bool) string {
	if materialized {
		return "materialized view"
	}
	return "view"
}
