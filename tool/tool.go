package tool

import "strings"

type Kind string

const (
	KindMessage Kind = "message"
	KindFile    Kind = "file"
	KindCommand Kind = "command"
	KindSearch  Kind = "search"
	KindBrowser Kind = "browser"
	KindControl Kind = "control"
)

// Def describes one tool tag that may appear in a model's output.
type Def struct {
	// Name is the tag name, e.g. "create-file". Matching is case-insensitive
	// and the lower case form is the canonical one.
	Name string `json:"name" toml:"name"`
	// Label is a short human readable description of what the tool does,
	// e.g. "Creating file".
	Label string `json:"label,omitempty" toml:"label"`
	// Kind groups tools for rendering.
	Kind Kind `json:"kind,omitempty" toml:"kind"`
	// PathAttributes lists the attributes that carry a file path, in order of
	// preference. Tools with path attributes expose a file view of their
	// content once one of them is present.
	PathAttributes []string `json:"pathAttributes,omitempty" toml:"path_attributes"`
}

// FuncName returns the canonical tag name.
func (d Def) FuncName() string {
	return strings.ToLower(d.Name)
}

// DisplayLabel returns the label, falling back to the tag name.
func (d Def) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.FuncName()
}

// IsFile returns true if the tool writes or edits a file.
func (d Def) IsFile() bool {
	return len(d.PathAttributes) > 0
}
