package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// Prompter asks the user to approve risky commands on the terminal.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter builds a prompter over the given streams. Nil arguments fall
// back to stdin/stdout; in that case the prompter is only enabled when stdin
// is a real terminal, so piped invocations decline instead of hanging.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// Enabled reports whether the prompter can actually reach a user.
func (p *Prompter) Enabled() bool { return p.interactive }

// Confirm shows the risk assessment and asks for explicit approval.
// Anything other than y/yes declines.
func (p *Prompter) Confirm(level domain.RiskLevel, command string, reasons []string) (bool, error) {
	fmt.Fprintf(p.out, "\nRisk level: %s\n", level)
	for _, reason := range reasons {
		fmt.Fprintf(p.out, "  - %s\n", reason)
	}
	fmt.Fprintf(p.out, "Command: %s\n", command)
	fmt.Fprint(p.out, "Execute anyway? [y/N]: ")

	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
