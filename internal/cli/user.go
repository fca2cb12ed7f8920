package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newUserCmd(load Loader) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var email, password string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				user, err := env.Users.CreateUser(cmd.Context(), email, password)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&email, "email", "", "account email")
	createCmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(env *Env) error {
				users, err := env.Users.ListUsers(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list users: %w", err)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tCREATED\tLAST LOGIN")
				for _, u := range users {
					lastLogin := "-"
					if u.LastLoginAt != nil {
						lastLogin = u.LastLoginAt.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format(time.RFC3339), lastLogin)
				}
				return w.Flush()
			})
		},
	}

	userCmd.AddCommand(createCmd, listCmd)
	return userCmd
}
