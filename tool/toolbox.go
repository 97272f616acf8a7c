package tool

import (
	"fmt"
	"sort"
	"strings"
)

// Toolbox is the allow-list of tool tags. It is not modified after it has been
// handed to a parser; use With to derive an extended copy.
type Toolbox struct {
	tools map[string]Def
}

// Box returns a new Toolbox containing the given tools.
func Box(defs ...Def) *Toolbox {
	t := &Toolbox{
		tools: make(map[string]Def),
	}
	for _, def := range defs {
		t.Add(def)
	}
	return t
}

// Add adds a tool to the toolbox.
func (t *Toolbox) Add(def Def) {
	funcName := def.FuncName()
	if funcName == "" || !validName(funcName) {
		panic(fmt.Sprintf("invalid tool name %q", def.Name))
	}
	if _, ok := t.tools[funcName]; ok {
		panic(fmt.Sprintf("tool %q already exists", funcName))
	}
	def.Name = funcName
	t.tools[funcName] = def
}

// With returns a copy of the toolbox with the given tools added. Tools that
// already exist are replaced rather than causing a panic, so configuration can
// override labels and path attributes of the defaults.
func (t *Toolbox) With(defs ...Def) *Toolbox {
	next := &Toolbox{
		tools: make(map[string]Def, len(t.tools)+len(defs)),
	}
	for name, def := range t.tools {
		next.tools[name] = def
	}
	for _, def := range defs {
		delete(next.tools, def.FuncName())
		next.Add(def)
	}
	return next
}

// Get returns the tool with the given name, ignoring case.
func (t *Toolbox) Get(name string) (Def, bool) {
	if t == nil {
		return Def{}, false
	}
	def, ok := t.tools[strings.ToLower(name)]
	return def, ok
}

// HasPrefix returns true if any tool name starts with prefix, ignoring case.
// An empty prefix matches as long as the toolbox isn't empty.
func (t *Toolbox) HasPrefix(prefix string) bool {
	if t == nil {
		return false
	}
	prefix = strings.ToLower(prefix)
	for name := range t.tools {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Names returns all tool names in sorted order.
func (t *Toolbox) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.tools))
	for name := range t.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tools in the toolbox.
func (t *Toolbox) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tools)
}

// validName reports whether name only uses characters the scanner accepts in a
// tag name.
func validName(name string) bool {
	for i := 0; i < len(name); i++ {
		if !IsNameByte(name[i]) {
			return false
		}
	}
	return true
}

// IsNameByte reports whether c may appear in a tag name.
func IsNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}
