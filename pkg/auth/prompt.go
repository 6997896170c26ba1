package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptCredentials interactively collects an account's credentials.
// The session ID and CSRF token are read without echo when stdin is a
// terminal.
func PromptCredentials(username string) (*Account, error) {
	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Print("Instagram username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	sessionID, err := readSecret(reader, "Session ID: ")
	if err != nil {
		return nil, err
	}

	csrfToken, err := readSecret(reader, "CSRF token: ")
	if err != nil {
		return nil, err
	}

	if sessionID == "" || csrfToken == "" {
		return nil, ErrInvalidCredentials
	}

	return &Account{
		Username:  username,
		SessionID: sessionID,
		CSRFToken: csrfToken,
	}, nil
}

// readSecret reads a value without echoing when attached to a terminal,
// falling back to a plain line read otherwise (pipes, CI)
func readSecret(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}
