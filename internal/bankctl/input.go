package bankctl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// ErrPassphraseMismatch is returned when a confirmed passphrase differs.
var ErrPassphraseMismatch = errors.New("passphrases do not match")

// getSecret prints prompt to w and reads a line from the terminal without
// echo.
func getSecret(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}
	return string(secret), nil
}

// getNewSecret asks for a secret twice and requires both to match.
func getNewSecret(w io.Writer, prompt string) (string, error) {
	first, err := getSecret(w, prompt)
	if err != nil {
		return "", err
	}
	second, err := getSecret(w, "Repeat "+strings.ToLower(prompt))
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPassphraseMismatch
	}
	return first, nil
}

// readInput reads path, or r when path is "-".
func readInput(path string, r io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(bufio.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
