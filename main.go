package main

import (
	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/cmd/database/seed"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ingredient"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "foodgram",
		Short: "Foodgram recipe backend",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LoadConfig()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(loadIngredientsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			if migrate {
				if err := migration.Migrate(db); err != nil {
					return err
				}
			}

			app, err := config.NewApp(db)
			if err != nil {
				return err
			}
			return app.Listen(":" + utils.GetConfigDefault("APP_PORT", "8000"))
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			return migration.Migrate(db)
		},
	}
}

func loadIngredientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-ingredients <file.csv>",
		Short: "Import the ingredient catalog from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			n, err := loadIngredients(cmd, db, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d ingredients\n", n)
			return nil
		},
	}
}

func loadIngredients(cmd *cobra.Command, db *gorm.DB, path string) (int, error) {
	service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	return seed.LoadIngredients(cmd.Context(), service, path)
}
