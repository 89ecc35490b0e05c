package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpggio/recipe-activity/internal/sqlite"
	"github.com/rpggio/recipe-activity/internal/transport"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage server API keys",
	}

	var dbPath, tenantID, token, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an API key for a tenant and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tenantID == "" {
				return fmt.Errorf("--tenant is required")
			}
			if token == "" {
				token = uuid.NewString()
			}

			db, err := sqlite.New(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.RunMigrations(); err != nil {
				return err
			}

			if err := sqlite.NewAPIKeyRepository(db).Create(cmd.Context(), token, tenantID, description); err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	create.Flags().StringVar(&dbPath, "db", "activity.db", "path to the server database")
	create.Flags().StringVar(&tenantID, "tenant", "", "tenant the key resolves to")
	create.Flags().StringVar(&token, "token", "", "key value (default: random)")
	create.Flags().StringVar(&description, "description", "", "free-form note stored with the key")

	cmd.AddCommand(create)
	return cmd
}

func newTokenCmd() *cobra.Command {
	var secret, issuer, tenantID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed JWT for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || tenantID == "" {
				return fmt.Errorf("--secret and --tenant are required")
			}
			token, err := transport.NewJWTResolver([]byte(secret), issuer).Issue(tenantID, ttl)
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (ACTIVITY_JWT_SECRET on the server)")
	cmd.Flags().StringVar(&issuer, "issuer", "", "iss claim")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant_id claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
