// Package prompt implements the interactive questions the drop scripts ask.
// All readers and writers are injected so tests can drive prompts without a
// terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Prompter asks questions on w and reads answers from r. An empty answer
// selects the offered default.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// NewStdio returns a Prompter over the process terminal.
func NewStdio() *Prompter {
	return New(os.Stdin, os.Stdout)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prints the question with its default and reads one line. An empty
// line returns defaultValue.
func (p *Prompter) Ask(question, defaultValue string) (string, error) {
	if _, err := fmt.Fprintf(p.w, "%s [%s]\n> ", question, defaultValue); err != nil {
		return "", err
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return defaultValue, nil
	}
	return line, nil
}

// AskRequired repeats the question until a non-empty answer arrives, either
// typed or via a non-empty default.
func (p *Prompter) AskRequired(question, defaultValue string) (string, error) {
	for {
		v, err := p.Ask(question, defaultValue)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
}

// AskInt asks until the answer parses as an integer.
func (p *Prompter) AskInt(question string, defaultValue int) (int, error) {
	for {
		v, err := p.Ask(question, strconv.Itoa(defaultValue))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err == nil {
			return n, nil
		}
		fmt.Fprintln(p.w, "Please enter a whole number.")
	}
}

// AskFloat asks until the answer parses as a float.
func (p *Prompter) AskFloat(question string, defaultValue float64) (float64, error) {
	for {
		v, err := p.Ask(question, strconv.FormatFloat(defaultValue, 'f', -1, 64))
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f, nil
		}
		fmt.Fprintln(p.w, "Please enter a number.")
	}
}

// AskDecimal asks until the answer parses as a decimal amount.
func (p *Prompter) AskDecimal(question string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	for {
		v, err := p.Ask(question, defaultValue.String())
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(p.w, "Please enter an amount, e.g. 1000.00.")
	}
}

// AskDate asks until the answer parses as a YYYY-MM-DD calendar date.
func (p *Prompter) AskDate(question string, defaultValue time.Time) (time.Time, error) {
	for {
		v, err := p.Ask(question, defaultValue.Format("2006-01-02"))
		if err != nil {
			return time.Time{}, err
		}
		d, err := time.Parse("2006-01-02", v)
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(p.w, "Please enter a date as YYYY-MM-DD.")
	}
}

// Confirm asks a yes/no question. Accepted answers: y, yes, n, no, in any
// case; empty selects the default.
func (p *Prompter) Confirm(question string, defaultValue bool) (bool, error) {
	def := "n"
	if defaultValue {
		def = "y"
	}
	for {
		v, err := p.Ask(question+" (y/n)", def)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(v) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.w, "Please answer yes or no.")
	}
}

// Secret prints the prompt and reads a line from the terminal without echo.
// The returned bytes should be wiped by the caller when no longer needed.
func (p *Prompter) Secret(prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(p.w, prompt+": "); err != nil {
		return nil, err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.w)
	if err != nil {
		return nil, err
	}
	return b, nil
}
