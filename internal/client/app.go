// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-credential-keeper/internal/adapter"
	"github.com/MKhiriev/go-credential-keeper/internal/logger"
	"github.com/MKhiriev/go-credential-keeper/models"
)

// Environment fallbacks for secrets.
const (
	EnvPassword    = "CREDENTIAL_KEEPER_PASSWORD"
	EnvNewPassword = "CREDENTIAL_KEEPER_NEW_PASSWORD"
	EnvToken       = "CREDENTIAL_KEEPER_TOKEN"
)

var _ Client = (*App)(nil)

type command func(ctx context.Context, args []string) error

type App struct {
	adapter adapter.ServerAdapter
	out     io.Writer
	getenv  func(string) string

	commands map[string]command

	logger *logger.Logger
}

func NewApp(serverAdapter adapter.ServerAdapter, out io.Writer, logger *logger.Logger) *App {
	a := &App{
		adapter: serverAdapter,
		out:     out,
		getenv:  os.Getenv,
		logger:  logger,
	}

	a.commands = map[string]command{
		"register":        a.register,
		"login":           a.login,
		"me":              a.me,
		"change-password": a.changePassword,
		"forgot-password": a.forgotPassword,
		"reset-password":  a.resetPassword,
		"version":         a.version,
	}

	return a
}

// Run executes the subcommand args[0] with the flags in args[1:].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w, expected one of: %s", ErrNoCommand, a.commandNames())
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		return fmt.Errorf("%w %q, expected one of: %s", ErrUnknownCommand, args[0], a.commandNames())
	}

	a.logger.Debug().Str("command", args[0]).Msg("running command")

	return cmd(ctx, args[1:])
}

func (a *App) commandNames() string {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func (a *App) register(ctx context.Context, args []string) error {
	var (
		request    models.RegisterRequest
		categories string
	)

	fs := newFlagSet("register")
	fs.StringVar(&request.Username, "username", "", "Username (at most 12 characters)")
	fs.StringVar(&request.Email, "email", "", "E-mail")
	fs.StringVar(&request.Name, "name", "", "Display name")
	fs.StringVar(&request.Password, "password", "", "Password, defaults to $"+EnvPassword)
	fs.StringVar(&categories, "categories", "", "Comma-separated category IDs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	request.Password = a.secret(request.Password, EnvPassword)
	if err := required(map[string]string{
		"username": request.Username,
		"email":    request.Email,
		"name":     request.Name,
		"password": request.Password,
	}); err != nil {
		return err
	}

	ids, err := parseCategories(categories)
	if err != nil {
		return err
	}
	request.Categories = ids

	user, err := a.adapter.Register(ctx, request)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return a.print(sessionOutput{Token: a.adapter.Token(), User: user})
}

func (a *App) login(ctx context.Context, args []string) error {
	var credentials models.Credentials

	fs := newFlagSet("login")
	fs.StringVar(&credentials.Login, "login", "", "Username or e-mail")
	fs.StringVar(&credentials.Password, "password", "", "Password, defaults to $"+EnvPassword)
	if err := fs.Parse(args); err != nil {
		return err
	}

	credentials.Password = a.secret(credentials.Password, EnvPassword)
	if err := required(map[string]string{"login": credentials.Login, "password": credentials.Password}); err != nil {
		return err
	}

	user, err := a.adapter.Login(ctx, credentials)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	return a.print(sessionOutput{Token: a.adapter.Token(), User: user})
}

func (a *App) me(ctx context.Context, args []string) error {
	var token string

	fs := newFlagSet("me")
	fs.StringVar(&token, "token", "", "Access token, defaults to $"+EnvToken)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.useToken(token); err != nil {
		return err
	}

	user, err := a.adapter.Me(ctx)
	if err != nil {
		return fmt.Errorf("me: %w", err)
	}

	return a.print(user)
}

func (a *App) changePassword(ctx context.Context, args []string) error {
	var (
		token   string
		request models.ChangePasswordRequest
	)

	fs := newFlagSet("change-password")
	fs.StringVar(&token, "token", "", "Access token, defaults to $"+EnvToken)
	fs.StringVar(&request.OldPassword, "old-password", "", "Current password, defaults to $"+EnvPassword)
	fs.StringVar(&request.NewPassword, "new-password", "", "New password, defaults to $"+EnvNewPassword)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.useToken(token); err != nil {
		return err
	}
	request.OldPassword = a.secret(request.OldPassword, EnvPassword)
	request.NewPassword = a.secret(request.NewPassword, EnvNewPassword)
	if err := required(map[string]string{"old-password": request.OldPassword, "new-password": request.NewPassword}); err != nil {
		return err
	}

	if err := a.adapter.ChangePassword(ctx, request); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return a.print(statusOutput{Status: "password changed"})
}

func (a *App) forgotPassword(ctx context.Context, args []string) error {
	var request models.ForgotPasswordRequest

	fs := newFlagSet("forgot-password")
	fs.StringVar(&request.Email, "email", "", "E-mail of the account")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := required(map[string]string{"email": request.Email}); err != nil {
		return err
	}

	if err := a.adapter.ForgotPassword(ctx, request); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	return a.print(statusOutput{Status: "if the e-mail is registered, a reset link has been issued"})
}

func (a *App) resetPassword(ctx context.Context, args []string) error {
	var request models.ResetPasswordRequest

	fs := newFlagSet("reset-password")
	fs.StringVar(&request.Link, "link", "", "Reset password link")
	fs.StringVar(&request.NewPassword, "new-password", "", "New password, defaults to $"+EnvNewPassword)
	if err := fs.Parse(args); err != nil {
		return err
	}

	request.NewPassword = a.secret(request.NewPassword, EnvNewPassword)
	if err := required(map[string]string{"link": request.Link, "new-password": request.NewPassword}); err != nil {
		return err
	}

	if err := a.adapter.ResetPassword(ctx, request); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	return a.print(statusOutput{Status: "password reset"})
}

func (a *App) version(ctx context.Context, args []string) error {
	if err := newFlagSet("version").Parse(args); err != nil {
		return err
	}

	serverVersion, err := a.adapter.ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}

	return a.print(versionOutput{ServerVersion: serverVersion})
}

// useToken hands the flag value or $CREDENTIAL_KEEPER_TOKEN to the adapter.
func (a *App) useToken(token string) error {
	token = a.secret(token, EnvToken)
	if token == "" {
		return fmt.Errorf("%w: -token or $%s", ErrMissingFlag, EnvToken)
	}

	a.adapter.SetToken(token)
	return nil
}

// secret returns value, or the environment variable env when value is empty.
func (a *App) secret(value, env string) string {
	if value != "" {
		return value
	}

	return a.getenv(env)
}

func (a *App) print(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

type sessionOutput struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type statusOutput struct {
	Status string `json:"status"`
}

type versionOutput struct {
	ServerVersion string `json:"server_version"`
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

// required reports the first empty value, in flag name order.
func required(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(values[name]) == "" {
			return fmt.Errorf("%w: -%s", ErrMissingFlag, name)
		}
	}

	return nil
}

func parseCategories(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid category id %q", p)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
