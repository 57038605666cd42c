package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	userDomain "github.com/allisson/cardvault/internal/user/domain"
	userUseCase "github.com/allisson/cardvault/internal/user/usecase"
)

// RunCreateUser creates a user with the given role. It is the way to bootstrap
// the first ADMIN, since sign-up always creates USER accounts. When password is
// empty it is read from io.Reader.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UserUseCase,
	logger *slog.Logger,
	username, email, password, role, format string,
	io IOTuple,
) error {
	if password == "" {
		var err error
		password, err = promptForPassword(io)
		if err != nil {
			return err
		}
	}

	user, err := users.Create(ctx, userUseCase.CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     userDomain.Role(strings.ToUpper(role)),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]any{
			"id":       user.ID.String(),
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(io.Writer, "User created successfully\nID: %s\nUsername: %s\nRole: %s\n",
			user.ID, user.Username, user.Role)
	}

	logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return nil
}

func promptForPassword(io IOTuple) (string, error) {
	if io.Reader == nil {
		return "", fmt.Errorf("password is required")
	}

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	password, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && password == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	_, _ = fmt.Fprintln(io.Writer)

	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}
