package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/hotelhub-pms/internal/config"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
	"github.com/iliyamo/hotelhub-pms/internal/utils"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff users",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

// staffRole normalizes a --role value.  AGENT is not a staff role; agent
// credentials come from `hotelctl token agent`.
func staffRole(s string) (string, error) {
	switch r := strings.ToUpper(strings.TrimSpace(s)); r {
	case model.RoleAdmin, model.RoleFrontDesk:
		return r, nil
	case "FRONTDESK", "FRONT-DESK":
		return model.RoleFrontDesk, nil
	}
	return "", fmt.Errorf("unknown role %q (want ADMIN or FRONT_DESK)", s)
}

func newUserCreateCmd() *cobra.Command {
	var email, password, role string

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a staff user",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := staffRole(role)
			if err != nil {
				return err
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			id, err := repository.NewUserRepo(db).Create(context.Background(), email, password, r, cfg.BcryptCost)
			if errors.Is(err, repository.ErrEmailExists) {
				return fmt.Errorf("a user with email %q already exists", email)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %q (id %s)\n", r, strings.ToLower(email), id)
			return nil
		},
	}

	c.Flags().StringVar(&email, "email", "", "login email")
	c.Flags().StringVar(&password, "password", "", "initial password")
	c.Flags().StringVar(&role, "role", model.RoleFrontDesk, "ADMIN or FRONT_DESK")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue service tokens",
	}
	cmd.AddCommand(newAgentTokenCmd())
	return cmd
}

func newAgentTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	c := &cobra.Command{
		Use:   "agent",
		Short: "Print a JWT with role AGENT for the voice-agent webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				return errors.New("--ttl must be positive")
			}
			cfg := config.Load()
			tok, err := utils.NewAccessToken(cfg.JWTSecret, subject, model.RoleAgent, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format(time.RFC3339))
			return nil
		},
	}
	c.Flags().StringVar(&subject, "subject", "voice-agent", "token subject")
	c.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "token lifetime")
	return c
}
