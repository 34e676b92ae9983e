package cmd

import (
	"fmt"
	"os"
	"time"

	"vkinder-bot/internal/database"
	"vkinder-bot/internal/repository"
	"vkinder-bot/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	namesFile    string
	tokenSubject string
	tokenTTL     time.Duration
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return database.Migrate(cmd.Context(), cfg.Database.DSN())
	},
}

var seedNamesCmd = &cobra.Command{
	Use:   "seed-names",
	Short: "Load the first-name to sex dictionary",
	RunE:  runSeedNames,
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the admin API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Admin.JWTSecret == "" {
			return fmt.Errorf("admin.jwt_secret is not configured")
		}

		token, err := services.NewAuthService(cfg.Admin.JWTSecret).GenerateJWT(tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	seedNamesCmd.Flags().StringVarP(&namesFile, "file", "f", "data/names.txt", "dictionary file with name-sex lines")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "admin", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func runSeedNames(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(namesFile)
	if err != nil {
		return fmt.Errorf("failed to open names file: %w", err)
	}
	defer f.Close()

	names, err := services.ParseNames(f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	db, err := database.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, err := repository.NewGenderRepository(db).Seed(ctx, names)
	if err != nil {
		return err
	}

	log.Info().
		Int("parsed", len(names)).
		Int64("inserted", inserted).
		Str("file", namesFile).
		Msg("Names seeded")
	return nil
}
