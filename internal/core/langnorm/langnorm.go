// Package langnorm canonicalizes programming language labels
// Providers report the same language under several spellings ("golang",
// "GoLang", "go"); frequency maps need one key per language
package langnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// aliases maps folded labels that title casing alone gets wrong
var aliases = map[string]string{
	"golang":      "Go",
	"js":          "JavaScript",
	"javascript":  "JavaScript",
	"ts":          "TypeScript",
	"typescript":  "TypeScript",
	"c++":         "C++",
	"cpp":         "C++",
	"c#":          "C#",
	"csharp":      "C#",
	"objective-c": "Objective-C",
	"php":         "PHP",
	"html":        "HTML",
	"css":         "CSS",
	"scss":        "SCSS",
	"sql":         "SQL",
	"yaml":        "YAML",
	"json":        "JSON",
	"vimscript":   "Vim Script",
}

var titler = cases.Title(language.Und)

// Canon returns the canonical label for a raw language tag
// Empty and whitespace only input yields empty output
func Canon(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	folded := strings.ToLower(s)
	if v, ok := aliases[folded]; ok {
		return v
	}
	// already mixed case labels like "Emacs Lisp" pass through untouched
	if strings.ToLower(s) != s {
		return s
	}
	return titler.String(s)
}
