package main

import (
	"fmt"
	"strings"

	"farmadmin/internal/client"
	"farmadmin/internal/config"
	"farmadmin/internal/render"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var (
		email    string
		password string
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print or save the API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = a.readLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.readLine("Password: "); err != nil {
					return err
				}
			}
			session, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				a.Alert(client.Message(err))
				return &alertedError{err}
			}
			fmt.Fprintf(a.out, "Logged in as %s.\n", session.User.String("name"))
			if !save {
				fmt.Fprintln(a.out, session.Token)
				return nil
			}
			if err := config.SaveToken(a.v, session.Token); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Token saved to %s.\n", a.v.ConfigFileUsed())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&save, "save", false, "store the token in the config file")
	return cmd
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user and their permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := a.client.Me(cmd.Context())
			if err != nil {
				a.Alert(client.Message(err))
				return &alertedError{err}
			}
			perms, _ := me["permission_names"].([]any)
			fmt.Fprint(a.out, render.Card("Session", []render.Stat{
				{Label: "name", Value: me.String("name")},
				{Label: "email", Value: me.String("email")},
				{Label: "roles", Value: roleList(me)},
				{Label: "permissions", Value: fmt.Sprint(len(perms))},
			}))
			return nil
		},
	}
}

func roleList(user client.Record) string {
	roles, _ := user["roles"].([]any)
	if len(roles) == 0 {
		return "-"
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		if m, ok := r.(map[string]any); ok {
			names = append(names, client.Format(m["name"]))
		}
	}
	return strings.Join(names, ", ")
}
