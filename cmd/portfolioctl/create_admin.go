// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/olegiv/portfolio-go/internal/auth"
)

type adminInput struct {
	name, email, password, confirm string
}

func newCreateAdminCmd(open opener) *cobra.Command {
	var in adminInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long: `Create the admin account used to sign in to /admin.

Values not given as flags are prompted for. When the password is prompted
for, it must be entered twice.

Example:
  portfolioctl create-admin
  portfolioctl create-admin --email me@example.com --name "Me" --password '...'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptAdmin(cmd.InOrStdin(), cmd.OutOrStdout(), &in); err != nil {
				return err
			}
			if err := validateAdmin(in); err != nil {
				return err
			}

			b, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			accounts := auth.NewSessionAccounts(b.db, scs.New(), b.logger)
			user, err := accounts.Create(cmd.Context(), in.email, in.password, in.name)
			if err != nil {
				if errors.Is(err, auth.ErrEmailTaken) {
					return errors.Wrap(err, "this email is already registered; sign in with it or choose another")
				}
				return errors.Wrap(err, "failed to create admin")
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "\nAdmin user created.\n")
			_, _ = fmt.Fprintf(out, "  Name:  %s\n", user.Name)
			_, _ = fmt.Fprintf(out, "  Email: %s\n", user.Email)
			_, _ = fmt.Fprintf(out, "  ID:    %d\n", user.ID)
			_, _ = fmt.Fprintf(out, "\nSign in at /login, then open /admin.\n")
			return nil
		},
	}

	cmd.Flags().StringVar(&in.email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&in.name, "name", "", "Admin display name")
	cmd.Flags().StringVar(&in.password, "password", "", "Admin password (prompted when empty)")
	return cmd
}

// promptAdmin asks for every field of in that is still empty.
func promptAdmin(r io.Reader, w io.Writer, in *adminInput) error {
	reader := bufio.NewReader(r)
	ask := func(label string, dst *string) error {
		if *dst != "" {
			return nil
		}
		_, _ = fmt.Fprintf(w, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return errors.Wrapf(err, "failed to read %s", strings.ToLower(label))
		}
		*dst = strings.TrimRight(line, "\r\n")
		return nil
	}

	if err := ask("Full Name", &in.name); err != nil {
		return err
	}
	if err := ask("Email", &in.email); err != nil {
		return err
	}
	if in.password != "" {
		in.confirm = in.password
		return nil
	}
	if err := ask(fmt.Sprintf("Password (min %d characters)", auth.MinPasswordLength), &in.password); err != nil {
		return err
	}
	return ask("Confirm Password", &in.confirm)
}

func validateAdmin(in adminInput) error {
	switch {
	case strings.TrimSpace(in.name) == "":
		return errors.New("name is required")
	case strings.TrimSpace(in.email) == "":
		return errors.New("email is required")
	case len([]rune(in.password)) < auth.MinPasswordLength:
		return errors.Errorf("password must be at least %d characters long", auth.MinPasswordLength)
	case in.password != in.confirm:
		return errors.New("passwords do not match")
	}
	return nil
}
