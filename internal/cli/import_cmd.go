package cli

import (
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/importer"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Seed users, categories, projects and missions from a YAML or JSON file",
		Long: "Seed users, categories, projects and missions from a YAML or JSON file.\n" +
			"The file is validated as a whole and written in one transaction.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				schema, err := importer.LoadCatalogSchema(args[0])
				if err != nil {
					return err
				}
				catalog, err := service.PrepareCatalog(schema, a.now())
				if err != nil {
					return err
				}
				res := service.ImportResult{
					Users:      len(catalog.Users),
					Categories: len(catalog.Categories),
					Projects:   len(catalog.Projects),
					Missions:   len(catalog.Missions),
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Import file is valid: %s\n", res)
				return nil
			}

			res, err := a.Import.ImportCatalog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing")
	return cmd
}
