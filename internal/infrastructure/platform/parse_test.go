package platform

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/hostpilot/internal/domain"
)

func TestSplitColumns(t *testing.T) {
	cases := []struct {
		line string
		n    int
		want []string
	}{
		{"a b c", 3, []string{"a", "b", "c"}},
		{"a   b\t c d e", 3, []string{"a", "b", "c d e"}},
		{"  leading ws   kept last  ", 2, []string{"leading", "ws   kept last"}},
		{"one", 4, []string{"one"}},
		{"", 3, nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, splitColumns(tc.line, tc.n)); diff != "" {
			t.Errorf("splitColumns(%q, %d) mismatch:\n%s", tc.line, tc.n, diff)
		}
	}
}

func TestParseWmctrlList(t *testing.T) {
	output := "0x04000003  0 host Mozilla Firefox\n" +
		"0x04a00001 -1 host xfce4-panel\n" +
		"0x05200004  1 host notes.txt - Editor with   spaces\n" +
		"short line\n"

	got := parseWmctrlList(output)
	want := []domain.WindowRecord{
		{ID: "0x04000003", Desktop: "0", Application: "host", Title: "Mozilla Firefox", Platform: domain.PlatformLinux},
		{ID: "0x04a00001", Desktop: "-1", Application: "host", Title: "xfce4-panel", Platform: domain.PlatformLinux},
		{ID: "0x05200004", Desktop: "1", Application: "host", Title: "notes.txt - Editor with   spaces", Platform: domain.PlatformLinux},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parseWmctrlList mismatch:\n%s", diff)
	}
}

func TestParseDarwinWindows(t *testing.T) {
	output := "Safari|||Apple - Start Page\n" +
		"Terminal|||zsh - 80x24\n" +
		"\n" +
		"stray line without separator\n"

	got := parseDarwinWindows(output)
	want := []domain.WindowRecord{
		{ID: "0", Application: "Safari", Title: "Apple - Start Page", Platform: domain.PlatformMacOS},
		{ID: "1", Application: "Terminal", Title: "zsh - 80x24", Platform: domain.PlatformMacOS},
		{ID: "2", Application: "Unknown", Title: "stray line without separator", Platform: domain.PlatformMacOS},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parseDarwinWindows mismatch:\n%s", diff)
	}
}

// Both macOS launchers must carry the requested title into their windows.
func TestDarwinSpawnScriptsSetTitle(t *testing.T) {
	cases := []struct {
		name   string
		script string
	}{
		{"iterm", itermSpawnScript(`AI "quoted" Terminal`)},
		{"terminal", terminalSpawnScript(`AI "quoted" Terminal`)},
	}
	for _, tc := range cases {
		if !strings.Contains(tc.script, `"AI \"quoted\" Terminal"`) {
			t.Errorf("%s script missing quoted title:\n%s", tc.name, tc.script)
		}
	}
	if !strings.Contains(itermSpawnScript("t"), "set name to") {
		t.Error("iterm script does not name the session")
	}
	if !strings.Contains(terminalSpawnScript("t"), "set custom title of front window to") {
		t.Error("terminal script does not set the window title")
	}
}

func TestParsePowershellJSONArray(t *testing.T) {
	output := `[
  {"Id": 1234, "ProcessName": "notepad", "MainWindowTitle": "notes.txt - Notepad", "WindowHandle": 65558},
  {"Id": 5678, "ProcessName": "chrome", "MainWindowTitle": "New Tab", "WindowHandle": 65560}
]`
	got, err := parsePowershellJSON(output)
	if err != nil {
		t.Fatalf("parsePowershellJSON: %v", err)
	}
	want := []domain.WindowRecord{
		{ID: "1234", Handle: "65558", Application: "notepad", Title: "notes.txt - Notepad", Platform: domain.PlatformWindows},
		{ID: "5678", Handle: "65560", Application: "chrome", Title: "New Tab", Platform: domain.PlatformWindows},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}
}

// A single matching process makes ConvertTo-Json emit a bare object.
func TestParsePowershellJSONSingleObject(t *testing.T) {
	output := `{"Id": 42, "ProcessName": "notepad", "MainWindowTitle": "readme", "WindowHandle": 7}`
	got, err := parsePowershellJSON(output)
	if err != nil {
		t.Fatalf("parsePowershellJSON: %v", err)
	}
	if len(got) != 1 || got[0].ID != "42" || got[0].Application != "notepad" {
		t.Fatalf("got %+v", got)
	}
}

func TestParsePowershellJSONInvalid(t *testing.T) {
	for _, output := range []string{"", "   ", "Id ProcessName\n-- ----"} {
		if _, err := parsePowershellJSON(output); err == nil {
			t.Errorf("expected parse error for %q", output)
		}
	}
}

func TestParsePowershellTable(t *testing.T) {
	output := "  Id ProcessName MainWindowTitle\n" +
		"  -- ----------- ---------------\n" +
		"\n" +
		"1234 notepad     notes.txt - Notepad\n" +
		"5678 chrome      New Tab\n"

	got := parsePowershellTable(output)
	if len(got) != 2 {
		t.Fatalf("got %d records: %+v", len(got), got)
	}
	if got[0].ID != "1234" || got[0].Application != "notepad" || got[0].Title != "notes.txt - Notepad" {
		t.Fatalf("first record wrong: %+v", got[0])
	}
}
