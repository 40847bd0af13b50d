package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AntonStoeckl/library-circulation/circulation/auth"
	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/command/openstaffaccount"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

const LogMsgAdminCreated = "admin account opened"

var ErrPasswordMismatch = errors.New("passwords do not match")

// adminParams are the account fields given as flags; the password is prompted for.
type adminParams struct {
	Username string
	FullName string
	Email    string
}

func newCreateAdminCommand() *cobra.Command {
	var params adminParams

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Open an Admin staff account",
		Long: `Open an Admin staff account. The password is read from the terminal without echo,
or as the first line of stdin when stdin is not a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			password, err := readPassword(os.Stdin, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.shutdown(cmd.Context())

			userID, err := createAdmin(cmd.Context(), rt, params, password)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Admin %q created with id %s\n", params.Username, userID)

			return err
		},
	}

	cmd.Flags().StringVar(&params.Username, "username", "", "login name of the admin")
	cmd.Flags().StringVar(&params.FullName, "full-name", "", "full name of the admin")
	cmd.Flags().StringVar(&params.Email, "email", "", "email address of the admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("full-name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// createAdmin opens the account and returns its user id. The admin is recorded as its own creator.
func createAdmin(ctx context.Context, rt *runtime, params adminParams, password string) (core.UserIDString, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	hs := &handlerSet{rt: rt}
	handler := observeCommand[openstaffaccount.Command, shell.HandlerResult](
		hs, openstaffaccount.NewCommandHandler(rt.store))
	if err = errors.Join(hs.errs...); err != nil {
		return "", err
	}

	userID := uuid.Must(uuid.NewV7()).String()
	command := openstaffaccount.BuildCommand(
		userID,
		params.Username,
		hash,
		core.RoleAdmin,
		params.FullName,
		params.Email,
		userID,
		rt.clock.Now(),
	)

	if _, err = handler.Handle(ctx, command); err != nil {
		return "", err
	}

	rt.logger.Info(LogMsgAdminCreated, "username", command.Username, "user_id", userID)

	return userID, nil
}

func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}

		return strings.TrimRight(line, "\r\n"), nil
	}

	first, err := promptHidden(fd, prompt, "Password: ")
	if err != nil {
		return "", err
	}

	second, err := promptHidden(fd, prompt, "Repeat password: ")
	if err != nil {
		return "", err
	}

	if first != second {
		return "", ErrPasswordMismatch
	}

	return first, nil
}

func promptHidden(fd int, prompt io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(prompt, label)

	password, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}

	return string(password), nil
}
