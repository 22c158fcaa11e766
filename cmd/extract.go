package cmd

import (
	"registry-sync/feature/licensing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	extractFile string
	extractOut  string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <registry>",
	Short: "Print the canonical records of a registry as JSON",
	Long: `Renders and extracts a registry without touching the database.
This is the only way to read export-only registries such as sanctions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		reg, err := licensing.Lookup(args[0])
		if err != nil {
			return err
		}

		provider, err := a.provider(extractFile)
		if err != nil {
			return err
		}

		export, err := licensing.ExtractRegistry(cmd.Context(), provider, reg)
		if err != nil {
			return err
		}
		a.logger.Info("Registry extracted", zap.String("registry", reg.Name), zap.Int("records", export.Count))

		return writeJSON(extractOut, export)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractFile, "file", "", "read the registry page from a saved HTML file")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "-", "output file ('-' for stdout)")
	RootCmd.AddCommand(extractCmd)
}
