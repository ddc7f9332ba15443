package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/luckylabs-yuno/yuno/internal/middleware"
)

func newTokenCommand(opts *options) *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin API token",
		Long: `Issue a bearer token for the /api/admin endpoints. The signing secret
is read from --secret, YUNO_JWT_SECRET or JWT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := opts.v
			if err := v.BindPFlag("jwt_secret", cmd.Flags().Lookup("secret")); err != nil {
				return err
			}
			if err := v.BindEnv("jwt_secret", "YUNO_JWT_SECRET", "JWT_SECRET"); err != nil {
				return err
			}
			secret := v.GetString("jwt_secret")
			if secret == "" {
				return errors.New("no signing secret: set --secret or JWT_SECRET")
			}

			token, err := middleware.IssueToken(secret, subject, scopes, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().String("secret", "", "JWT signing secret")
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, usually an email address")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{middleware.ScopeLeadsRead}, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
