package commands

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klabast/wb-services/epoch-demo/internal/app"
	"golang.org/x/term"
)

// minPasswordLen is the shortest password accepted for the auth file
const minPasswordLen = 12

// HashPassword handles the hash-password subcommand
func HashPassword(args []string) {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)
	overwrite := fs.Bool("overwrite", false, "Overwrite existing auth file without asking")
	insecureUnmask := fs.Bool("insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	output := fs.String("output", "", "Auth file to write (default: $AUTH_FILE or ./auth.secret)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: epoch-demo hash-password [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Creates an auth file protecting PUT /events (Argon2id).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  %s    Path to auth file (default: ./%s)\n", app.AuthFileEnv, app.DefaultAuthFile)
	}
	_ = fs.Parse(args)

	stdin := bufio.NewReader(os.Stdin)

	username, err := promptLine(stdin, "Enter username: ")
	if err != nil {
		exitf("Error reading username: %v", err)
	}
	if username == "" {
		exitf("Username cannot be empty")
	}

	read := func(prompt string) (string, error) {
		if *insecureUnmask || !term.IsTerminal(int(os.Stdin.Fd())) {
			return promptLine(stdin, prompt)
		}
		return promptHidden(prompt)
	}

	if *insecureUnmask {
		fmt.Fprintln(os.Stderr, "⚠️  WARNING: Password will be visible on screen!")
	}

	password, err := read("Enter password:   ")
	if err != nil {
		exitf("Error reading password: %v", err)
	}
	confirm, err := read("Confirm password: ")
	if err != nil {
		exitf("Error reading password confirmation: %v", err)
	}

	if err := validatePassword(password, confirm); err != nil {
		exitf("%v", err)
	}

	path := *output
	if path == "" {
		path = app.ResolveAuthFile(app.DefaultAuthFile)
	}
	if err := app.CreateAuthFile(path, username, password, *overwrite); err != nil {
		exitf("Error: %v", err)
	}
}

// validatePassword checks a new password and its confirmation
func validatePassword(password, confirm string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}

func promptLine(r *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptHidden reads a line without echoing it
func promptHidden(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
