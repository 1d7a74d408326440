package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rentpos-backend/internal/audit"
	"rentpos-backend/internal/inventory"

	"github.com/spf13/cobra"
)

func ImportProductsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "import-products <file.xlsx>",
		Short: "Import catalogue products from an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
				return fmt.Errorf("%s: only .xlsx workbooks are supported", path)
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := env.Open()
			if err != nil {
				return err
			}
			report, err := inventory.ImportProducts(cmd.Context(), db, f, audit.System, env.Log)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
