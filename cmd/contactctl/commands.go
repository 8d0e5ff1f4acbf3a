// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/taibuivan/contactly/internal/users/auth"
	"github.com/taibuivan/contactly/internal/users/identity"
)

const usage = `usage: contactctl <command> [flags]

commands:
  create-admin -username <name> -email <address>   create a confirmed admin (prompts for a password)
  promote -username <name>                         grant the admin role to an existing account
  migrate-down [-steps n]                          roll back the newest migrations`

// errUsage is returned for unknown commands or bad flags.
var errUsage = errors.New(usage)

// readPassword is a test seam for term.ReadPassword.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type adminCreator interface {
	CreateAdmin(context context.Context, input auth.RegisterInput) (*identity.Identity, error)
}

type promoter interface {
	Promote(context context.Context, username string) (*identity.Identity, error)
}

// commands holds what each subcommand needs.
type commands struct {
	admins      adminCreator
	promoter    promoter
	migrateDown func(steps int) error
	out         io.Writer
}

// run dispatches args[0] to its subcommand.
func (cmd *commands) run(context context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "create-admin":
		return cmd.createAdmin(context, args[1:])
	case "promote":
		return cmd.promote(context, args[1:])
	case "migrate-down":
		return cmd.rollback(args[1:])
	default:
		return errUsage
	}
}

func (cmd *commands) createAdmin(context context.Context, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "account username")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil || *username == "" || *email == "" {
		return errUsage
	}

	fmt.Fprint(cmd.out, "Password: ")
	password, err := readPassword()
	fmt.Fprintln(cmd.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(cmd.out, "Repeat password: ")
	repeated, err := readPassword()
	fmt.Fprintln(cmd.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if !bytes.Equal(password, repeated) {
		return errors.New("passwords do not match")
	}

	admin, err := cmd.admins.CreateAdmin(context, auth.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "created admin %s (%s)\n", admin.Username, admin.ID)
	return nil
}

func (cmd *commands) promote(context context.Context, args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("username", "", "account username")
	if err := fs.Parse(args); err != nil || *username == "" {
		return errUsage
	}

	user, err := cmd.promoter.Promote(context, *username)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "%s is now %s\n", user.Username, user.Role)
	return nil
}

func (cmd *commands) rollback(args []string) error {
	fs := flag.NewFlagSet("migrate-down", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	steps := fs.Int("steps", 1, "number of migrations to roll back")
	if err := fs.Parse(args); err != nil || *steps < 1 {
		return errUsage
	}

	if err := cmd.migrateDown(*steps); err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "rolled back %d migration(s)\n", *steps)
	return nil
}
