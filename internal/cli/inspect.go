package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ralt/rhinopackages/internal/models"
	"github.com/ralt/rhinopackages/internal/scanner"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [dir]",
		Short: "Show the catalog flags of local Yak artifacts",
		Long: `Scans a directory for .yak files and prints the compatibility flags
the catalog would record for each of them, without contacting the registry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			artifacts, err := scanner.NewFileSystemScanner().Scan(cmd.Context(), dir)
			if err != nil {
				return &models.SyncError{
					Type: models.ErrFileOp,
					Err:  err,
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tFILTERS\tVALUE")
			for _, a := range artifacts {
				fmt.Fprintf(w, "%s\t%s\t%d\n", a.Path, a.Flags, int(a.Flags))
			}
			return w.Flush()
		},
	}
}
