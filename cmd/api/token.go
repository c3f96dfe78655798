package main

import (
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/middleware"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token signed with JWT_SECRET",
	Long: `Issue an access token for local testing or service-to-service calls.

Staff tokens use --role admin and any subject. Customer tokens use
--role customer and the customer contact's ID as the subject.`,
	Example: `  storefront token --role admin
  storefront token --role customer --subject 9d7e2c44-5f31-4b8a-8e2d-3a6b1c9f0e22 --ttl 2h`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("subject", "", "token subject (default: a random staff ID)")
	tokenCmd.Flags().String("role", middleware.RoleAdmin, "admin or customer")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	role, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	switch role {
	case middleware.RoleAdmin:
		if subject == "" {
			subject = uuid.NewString()
		}
	case middleware.RoleCustomer:
		if _, err := uuid.Parse(subject); err != nil {
			return fmt.Errorf("customer tokens need a contact ID as --subject")
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	token, err := middleware.NewAuthenticator(cfg.JWTSecret).IssueToken(subject, role, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
