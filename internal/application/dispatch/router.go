// Package dispatch routes emitted code blocks to the cheapest reliable
// execution channel: the visible terminal, the GUI handler, or the generic
// code-execution collaborator.
package dispatch

import (
	"regexp"
	"strings"

	"github.com/doeshing/hostpilot/internal/domain"
)

// shellLanguages are the language tags that always route to the terminal.
var shellLanguages = map[string]bool{
	"shell": true,
	"bash":  true,
	"sh":    true,
	"zsh":   true,
	"fish":  true,
}

// terminalPrefixes match the first code line against well-known command
// families: file ops, network tools, package managers, process tools, VCS.
var terminalPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(ls|dir|pwd|cd|mkdir|rmdir|rm|cp|mv|cat|grep|find|which|whereis)\b`),
	regexp.MustCompile(`(?i)^(wget|curl|ping|ssh|scp|rsync)\b`),
	regexp.MustCompile(`(?i)^(apt|yum|brew|pip|npm|yarn)\s+install\b`),
	regexp.MustCompile(`(?i)^(systemctl|service|ps|top|htop|kill)\b`),
	regexp.MustCompile(`(?i)^(git|svn|hg)\s+`),
}

// guiPatterns match anywhere in the code text.
var guiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(click|mouse|keyboard|screen|window)`),
	regexp.MustCompile(`(?i)(browser|navigate|url|website)`),
	regexp.MustCompile(`(?i)(application|app|program).*open`),
	regexp.MustCompile(`(?i)(switch|focus|activate).*window`),
}

// RouteFor decides the execution channel for an emitted code block.
// Terminal wins over GUI: shell-family tags and command-prefix matches are
// checked first.
func RouteFor(block domain.CodeBlock) domain.Route {
	if isTerminalCommand(block.Language, block.Code) {
		return domain.RouteTerminal
	}
	if isGUIInteraction(block.Code) {
		return domain.RouteGUI
	}
	return domain.RouteCode
}

func isTerminalCommand(language, code string) bool {
	if shellLanguages[strings.ToLower(strings.TrimSpace(language))] {
		return true
	}
	firstLine := code
	if idx := strings.IndexByte(code, '\n'); idx >= 0 {
		firstLine = code[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)
	for _, re := range terminalPrefixes {
		if re.MatchString(firstLine) {
			return true
		}
	}
	return false
}

func isGUIInteraction(code string) bool {
	for _, re := range guiPatterns {
		if re.MatchString(code) {
			return true
		}
	}
	return false
}
