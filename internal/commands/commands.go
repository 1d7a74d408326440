// Package commands holds the operator subcommands run by posctl.
package commands

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Env is what every subcommand needs. Open is called lazily so that
// `posctl --help` works without a database.
type Env struct {
	Open func() (*gorm.DB, error)
	Log  *zap.Logger
}

func Root(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Operator tools for the rental and point-of-sale backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		MigrateCmd(env),
		ReconcileCalendarCmd(env),
		ImportProductsCmd(env),
		ReleaseRentalCmd(env),
		StatsCmd(env),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
