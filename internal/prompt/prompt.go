// Package prompt collects Oracle connection parameters interactively.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ppiankov/oraspectre/internal/models"
)

// DefaultPort is used when the port prompt is answered with a blank line
const DefaultPort = "1521"

// PasswordFunc reads a password without echoing it
type PasswordFunc func() (string, error)

// Collector gathers connection input from a reader, prompting on out
type Collector struct {
	in       *bufio.Reader
	out      io.Writer
	password PasswordFunc
}

// New creates a collector reading answers from in and writing prompts to
// out. A nil password function falls back to a plain line read from in.
func New(in io.Reader, out io.Writer, password PasswordFunc) *Collector {
	return &Collector{
		in:       bufio.NewReader(in),
		out:      out,
		password: password,
	}
}

// NewTerminal creates a collector bound to stdin/stdout. The password
// read does not echo when stdin is a terminal.
func NewTerminal() *Collector {
	c := New(os.Stdin, os.Stdout, nil)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		c.password = func() (string, error) {
			data, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}
	return c
}

// Collect prompts for connection parameters in fixed order. A blank port
// answer becomes DefaultPort; any other answer is kept verbatim, and no
// other field is validated here. Bad values surface later as connection
// failures.
func (c *Collector) Collect() (models.ConnectionParams, error) {
	host, err := c.ask("Enter Oracle Host: ")
	if err != nil {
		return models.ConnectionParams{}, err
	}

	port, err := c.ask("Enter Port [default: 1521]: ")
	if err != nil {
		return models.ConnectionParams{}, err
	}
	if port == "" {
		port = DefaultPort
	}

	service, err := c.ask("Enter Service Name/SID: ")
	if err != nil {
		return models.ConnectionParams{}, err
	}

	username, err := c.ask("Enter Read-Only Username: ")
	if err != nil {
		return models.ConnectionParams{}, err
	}

	password, err := c.readPassword(fmt.Sprintf("Enter password for %s: ", username))
	if err != nil {
		return models.ConnectionParams{}, err
	}

	return models.ConnectionParams{
		Host:     host,
		Port:     port,
		Service:  service,
		Username: username,
		Password: password,
	}, nil
}

// ask prints a prompt and reads one line
func (c *Collector) ask(label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine()
}

// readPassword prints a prompt and reads the password. The masked path
// emits its own newline since the terminal swallows the echo.
func (c *Collector) readPassword(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if c.password == nil {
		return c.readLine()
	}

	pw, err := c.password()
	if err != nil {
		return "", err
	}
	fmt.Fprintln(c.out)
	return pw, nil
}

// readLine reads one answer, tolerating a missing final newline
func (c *Collector) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
