package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/config"
)

// An existing row with the same email is promoted instead of duplicated.
const upsertAdmin = `
INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, account_type, is_active, email_verified_at, title, bio, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, '', 'admin', 'member', true, $6, '', '', $6, $6)
ON CONFLICT (email) DO UPDATE SET
	password_hash = EXCLUDED.password_hash,
	role = 'admin',
	account_type = 'member',
	is_active = true,
	email_verified_at = COALESCE(users.email_verified_at, EXCLUDED.email_verified_at),
	updated_at = EXCLUDED.updated_at
RETURNING id`

var (
	email     string
	firstName string
	lastName  string
)

var rootCmd = &cobra.Command{
	Use:   "create_admin",
	Short: "Create or promote a portal administrator",
	Long:  "Reads the password from ADMIN_PASSWORD and the database from DATABASE_URL (or PG_*).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}

		password := os.Getenv("ADMIN_PASSWORD")
		if len(password) < 8 {
			return errors.New("ADMIN_PASSWORD must be at least 8 characters")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		var id string
		now := time.Now().UTC()
		err = db.QueryRowContext(ctx, upsertAdmin,
			uuid.NewString(), common.NormalizeEmail(email), hash,
			strings.TrimSpace(firstName), strings.TrimSpace(lastName), now,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}

		fmt.Println("Admin ready:", id)
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&email, "email", "", "admin email address")
	rootCmd.Flags().StringVar(&firstName, "first-name", "Site", "first name")
	rootCmd.Flags().StringVar(&lastName, "last-name", "Admin", "last name")
	_ = rootCmd.MarkFlagRequired("email")

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("create_admin: %v", err)
	}
}
