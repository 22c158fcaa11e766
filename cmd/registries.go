package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"registry-sync/feature/licensing"

	"github.com/spf13/cobra"
)

// registriesCmd represents the registries command
var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "List the known registries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMODE\tURL")
		for _, r := range licensing.Registries() {
			mode := "sync"
			if r.ExportOnly {
				mode = "export"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, mode, r.URL)
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(registriesCmd)
}
