package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	coreuser "github.com/frahmantamala/office-management/internal/core/user"
	"github.com/frahmantamala/office-management/internal/department"
	"github.com/frahmantamala/office-management/internal/store"
	"github.com/frahmantamala/office-management/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the record store with the default departments",
	Long: `Seed the record store for development and testing purposes.
With --clear every collection is emptied first, which reopens first-run setup.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.LoggerWrapper()
		st, err := openStore(cfg.Database, lg)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer func() { _ = st.Close() }()

		collections := store.NewCollections(st)
		departments := department.NewService(department.NewRepository(collections), coreuser.NewRepository(collections), lg)

		if clearData {
			if err := clearCollections(ctx, collections); err != nil {
				log.Fatalf("failed to clear collections: %v", err)
			}
			if err := departments.Reset(ctx); err != nil {
				log.Fatalf("failed to reset departments: %v", err)
			}
			fmt.Println("Cleared all collections and restored default departments")
			return
		}

		seeded, err := departments.EnsureDefaults(ctx)
		if err != nil {
			log.Fatalf("failed to seed departments: %v", err)
		}
		if seeded {
			fmt.Println("Seeded default departments:", department.DefaultDepartments)
		} else {
			fmt.Println("departments already present; nothing to seed")
		}
	},
}

// clearCollections writes an empty value under every collection key.
func clearCollections(ctx context.Context, c *store.Collections) error {
	for _, key := range store.AllKeys {
		var empty any = []any{}
		if key == store.KeyUsers {
			empty = map[string]any{}
		}
		if err := c.Save(ctx, key, empty); err != nil {
			return err
		}
	}
	return nil
}
