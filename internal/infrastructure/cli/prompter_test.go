package cli

import (
	"strings"
	"testing"

	"github.com/doeshing/hostpilot/internal/domain"
)

func TestPrompterConfirmAnswers(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		approved bool
	}{
		{"plain yes", "y\n", true},
		{"full yes", "yes\n", true},
		{"uppercase yes", "Y\n", true},
		{"plain no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage defaults to no", "sure why not\n", false},
	}

	for _, tc := range cases {
		var out strings.Builder
		p := NewPrompter(strings.NewReader(tc.input), &out)
		if !p.Enabled() {
			t.Fatalf("%s: injected streams should be interactive", tc.name)
		}
		approved, err := p.Confirm(domain.RiskMedium, "shutdown -h now", []string{"system shutdown or reboot"})
		if err != nil {
			t.Fatalf("%s: Confirm: %v", tc.name, err)
		}
		if approved != tc.approved {
			t.Errorf("%s: approved = %v, want %v", tc.name, approved, tc.approved)
		}
	}
}

func TestPrompterShowsAssessment(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader("n\n"), &out)
	if _, err := p.Confirm(domain.RiskHigh, "chmod 777 /etc", []string{"world-writable system path"}); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	text := out.String()
	for _, want := range []string{"high", "chmod 777 /etc", "world-writable system path", "[y/N]"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt output missing %q:\n%s", want, text)
		}
	}
}

func TestPrompterClosedInputDeclines(t *testing.T) {
	var out strings.Builder
	p := NewPrompter(strings.NewReader(""), &out)
	approved, err := p.Confirm(domain.RiskMedium, "shutdown -h now", nil)
	if approved {
		t.Fatal("closed input must decline")
	}
	if err == nil {
		t.Fatal("closed input should surface the read error")
	}
}
