package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type jsonPrinter func(cmd *cobra.Command, v interface{}) error

func newRolesCmd(deps func() *backend, asJSON *bool, printJSON jsonPrinter) *cobra.Command {
	roles := &cobra.Command{
		Use:   "roles",
		Short: "Inspect and change user roles",
	}

	roles.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: `Give the "user" role to every user document without one`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrated, total, err := deps().users.MigrateRoles(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrating roles: %w", err)
			}
			if *asJSON {
				return printJSON(cmd, map[string]int{"migrated": migrated, "total": total})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d of %d users.\n", migrated, total)
			return nil
		},
	})

	roles.AddCommand(&cobra.Command{
		Use:   "set <email> <user|admin>",
		Short: "Set a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := deps().users.SetRole(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("setting role: %w", err)
			}
			if *asJSON {
				return printJSON(cmd, user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s.\n", user.Email, user.Role)
			return nil
		},
	})

	roles.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every user's role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := deps().users.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing users: %w", err)
			}
			if *asJSON {
				return printJSON(cmd, users)
			}
			for _, u := range users {
				role := u.Role
				if role == "" {
					role = "(none)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", u.Email, role)
			}
			return nil
		},
	})

	return roles
}
