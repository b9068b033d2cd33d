package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/billbuddy/internal/store"

	"github.com/spf13/cobra"
)

var flagImportMode string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data exported by `billbuddy export`",
	Long: "Import a JSON export. --mode replace overwrites everything;\n" +
		"--mode merge adds only bills whose ids are new.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportMode, "mode", string(store.ImportMerge), "replace or merge")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	mode, err := store.ParseImportMode(flagImportMode)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	sess, err := openSession(printNotices)
	if err != nil {
		return err
	}
	defer sess.Close()

	if mode == store.ImportReplace {
		ok, err := confirm(fmt.Sprintf("Replace all %d bills with the contents of %s?", len(sess.ledger.Bills()), args[0]))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("  Import canceled.")
			return nil
		}
	}

	if _, err := store.Import(sess.ledger, f, mode); err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	return nil
}
