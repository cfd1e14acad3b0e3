// Package prompt implements the interactive questions the panokit commands
// ask: free text with defaults, hidden passwords, login retries and the
// numbered device group menu.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"panokit/internal/adapter"

	"golang.org/x/term"
)

var (
	// ErrTooManyAttempts is returned when every login attempt failed
	ErrTooManyAttempts = errors.New("too many failed login attempts")
	// ErrNoSelection is returned when the menu answer selects nothing
	ErrNoSelection = errors.New("no valid selection")
)

// PasswordReader reads a line without echoing it
type PasswordReader func() (string, error)

// TerminalPassword reads a password from stdin with echo disabled.
// When stdin is not a terminal it falls back to reading a plain line.
func TerminalPassword(in *bufio.Reader) PasswordReader {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return readLine(in)
		}
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
}

// Prompter asks questions on out and reads answers from in
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	password PasswordReader
}

// New creates a prompter. password may be nil, in which case passwords
// are read as plain lines from in.
func New(in io.Reader, out io.Writer, password PasswordReader) *Prompter {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	if password == nil {
		password = func() (string, error) { return readLine(br) }
	}
	return &Prompter{in: br, out: out, password: password}
}

// NewTerminal creates a prompter on stdin/stdout with hidden password input
func NewTerminal() *Prompter {
	in := bufio.NewReader(os.Stdin)
	return New(in, os.Stdout, TerminalPassword(in))
}

// Printf writes to the prompter's output
func (p *Prompter) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Line asks a question and returns the trimmed answer
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	return readLine(p.in)
}

// WithDefault asks a question and returns def for an empty answer
func (p *Prompter) WithDefault(label, def string) (string, error) {
	fmt.Fprintf(p.out, "%s (default: %s): ", label, def)
	answer, err := readLine(p.in)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Password asks for a secret without echo
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	pw, err := p.password()
	fmt.Fprintln(p.out)
	return pw, err
}

// Confirm asks a y/n question; only "y" or "yes" count as yes
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprintf(p.out, "%s (y/n): ", label)
	answer, err := readLine(p.in)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// AuthFunc exchanges credentials for an API key
type AuthFunc func(ctx context.Context, username, password string) (string, error)

// Login asks for username and password until auth succeeds or maxAttempts
// is exhausted. A preset username is used for every attempt without asking.
// Failures other than rejected credentials are printed with their cause.
func (p *Prompter) Login(ctx context.Context, username string, auth AuthFunc, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	fmt.Fprintln(p.out, "You will be asked for your username and password.")
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		user := username
		if user == "" {
			var err error
			if user, err = p.Line("Enter username"); err != nil {
				return "", err
			}
		}

		fmt.Fprintln(p.out, "Please enter your password. (Input will be hidden)")
		password, err := p.Password("Enter password")
		if err != nil {
			return "", err
		}

		key, err := auth(ctx, user, password)
		if err == nil {
			return key, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, adapter.ErrAuthFailed) {
			fmt.Fprintf(p.out, "Login failed. Check credentials. Attempt %d of %d.\n", attempt, maxAttempts)
		} else {
			fmt.Fprintf(p.out, "Error connecting to Panorama: %v. Attempt %d of %d.\n", err, attempt, maxAttempts)
		}
	}

	fmt.Fprintln(p.out, "Too many failed login attempts. Exiting.")
	return "", ErrTooManyAttempts
}

// SelectDeviceGroups prints a numbered menu with an extra ALL entry and
// returns the chosen groups in menu order. Tokens that are not numbers in
// range are ignored.
func (p *Prompter) SelectDeviceGroups(groups []string) ([]string, error) {
	if len(groups) == 0 {
		return nil, ErrNoSelection
	}

	all := len(groups) + 1
	fmt.Fprintln(p.out, "\nAvailable Device Groups:")
	for i, g := range groups {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, g)
	}
	fmt.Fprintf(p.out, "  %d. ALL (all listed device groups)\n", all)

	answer, err := p.Line(fmt.Sprintf("Select device group(s) by number (comma-separated, or enter %d for ALL)", all))
	if err != nil {
		return nil, err
	}

	picked, ok := ParseSelection(answer, len(groups))
	if !ok {
		return nil, ErrNoSelection
	}
	if picked == nil {
		return append([]string(nil), groups...), nil
	}

	selected := make([]string, 0, len(picked))
	for _, idx := range picked {
		selected = append(selected, groups[idx])
	}
	return selected, nil
}

// ParseSelection parses a comma-separated list of 1-based menu numbers for
// a menu of n items plus ALL at n+1. It returns nil indexes with ok=true
// when ALL was chosen, and ok=false when nothing valid was chosen.
// Duplicate numbers are collapsed; order follows the menu.
func ParseSelection(answer string, n int) ([]int, bool) {
	chosen := make([]bool, n)
	found := false
	for _, tok := range strings.Split(answer, ",") {
		num, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || num < 1 || num > n+1 {
			continue
		}
		if num == n+1 {
			return nil, true
		}
		chosen[num-1] = true
		found = true
	}
	if !found {
		return nil, false
	}

	var out []int
	for i, c := range chosen {
		if c {
			out = append(out, i)
		}
	}
	return out, true
}

// readLine reads one line and trims it. EOF on a non-empty line is not an
// error; EOF on an empty read is.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
