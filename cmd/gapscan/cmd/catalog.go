package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/migratum/gapscan/pkg/fieldcatalog"
)

func newCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate field catalogs",
	}
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogValidateCommand())
	return cmd
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the fields of the active catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tSECTION\tCUSTOM PATHS\tRELATED")
			for _, f := range catalog.Fields() {
				related := string(f.Related)
				if related == "" {
					related = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					f.ID, f.DisplayName(), f.Priority, f.Section, len(f.CustomPaths), related)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\n%d fields in %d sections\n", catalog.Len(), len(catalog.Sections()))
			return nil
		},
	}
}

func newCatalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a field catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			catalog, err := fieldcatalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s is valid: %d fields\n", args[0], catalog.Len())
			return nil
		},
	}
}
