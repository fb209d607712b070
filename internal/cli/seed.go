package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voicedesk/voicedesk/internal/catalog"
	"github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/store"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write demo catalogs and fraud cases",
		Long:  "seed writes the built-in demo catalog files (FAQ, concepts, products, recipes) into the catalog directory and inserts the demo fraud cases when the case table is empty. Existing files and rows are left alone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			dir := cfg.Assistants.CatalogDir
			if dir == "" {
				dir = paths.Catalog
			}
			if err := catalog.WriteSeed(dir); err != nil {
				return err
			}
			fmt.Printf("Catalog:     %s\n", dir)

			db, err := store.Open(paths.DB, log)
			if err != nil {
				return err
			}
			defer db.Close()

			cases := store.NewCaseStore(db)
			if err := cases.SeedDemo(); err != nil {
				return err
			}
			n, err := cases.Count()
			if err != nil {
				return err
			}
			fmt.Printf("Fraud cases: %d\n", n)
			return nil
		},
	}
}
