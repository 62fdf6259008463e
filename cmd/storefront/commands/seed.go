package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alextreichler/shopfront/internal/output"
	"github.com/alextreichler/shopfront/internal/store"
)

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products from a YAML catalog",
		Long: `Load products from a YAML catalog. A product that already exists with the
same name and category is left unchanged.

Examples:
  storefront seed --file catalog.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer f.Close()

			products, err := store.LoadCatalog(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			if len(products) == 0 {
				output.Warning("%s has no products", file)
				return nil
			}

			db, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			created, err := db.SeedProducts(cmd.Context(), products)
			if err != nil {
				return err
			}
			output.Success("Seeded %d new product(s), %d already present", created, len(products)-created)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "YAML catalog to load")
	return cmd
}
