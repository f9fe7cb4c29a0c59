// Package intent turns free-text requests into execution strategy: the
// classifier picks a task category, the planner maps it to an action plan
// with a primary channel and an ordered fallback chain.
package intent

import (
	"strings"

	"github.com/doeshing/hostpilot/internal/domain"
	"github.com/doeshing/hostpilot/internal/ports"
)

// categoryRule pairs a category with its keyword set. Rules are tested in
// slice order and the first category with any match wins, so a request
// containing both "open" and "browser" classifies as app_control. The
// ordering is load-bearing; do not sort it.
type categoryRule struct {
	category domain.TaskCategory
	keywords []string
}

var categoryRules = []categoryRule{
	{domain.CategoryFileOperation, []string{"file", "folder", "directory", "copy", "move", "delete", "create", "download"}},
	{domain.CategoryAppControl, []string{"open", "close", "switch", "application", "program", "window"}},
	{domain.CategoryWebBrowsing, []string{"browser", "website", "url", "google", "search", "navigate"}},
	{domain.CategorySystemInfo, []string{"system", "process", "memory", "cpu", "disk", "network"}},
	{domain.CategoryTextProcessing, []string{"text", "edit", "write", "read", "find", "replace"}},
}

// KeywordClassifier implements ports.Classifier with the fixed ordered rule
// table. It is a pure function of the lower-cased input.
type KeywordClassifier struct{}

// NewClassifier builds the keyword classifier.
func NewClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify maps the request text to a task category; general when no
// keyword set matches.
func (c *KeywordClassifier) Classify(text string) domain.TaskCategory {
	lowered := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.category
			}
		}
	}
	return domain.CategoryGeneral
}

var _ ports.Classifier = (*KeywordClassifier)(nil)
