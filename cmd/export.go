package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/theirongolddev/billbuddy/internal/cli"
	"github.com/theirongolddev/billbuddy/internal/store"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.OpenFile(flagExportOut, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen output path
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer f.Close()
		w = f
	}

	st := sess.ledger.State()
	if err := store.Export(w, st, time.Now()); err != nil {
		return err
	}
	if flagExportOut != "" && !flagQuiet {
		fmt.Println(cli.RenderSuccess(fmt.Sprintf("Exported %d bills to %s", len(st.Bills), flagExportOut)))
	}
	return nil
}
