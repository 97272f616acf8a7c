package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault checks that the default toolbox holds every known tool tag.
func TestDefault(t *testing.T) {
	toolbox := Default()

	expected := []string{
		"ask", "str-replace", "notify", "create-file", "read-file", "execute-command",
		"create-directory", "list-directory", "search-code", "complete", "full-file-rewrite",
		"browser-navigate-to", "browser-click-element", "browser-input-text", "browser-go-back",
		"browser-wait", "browser-scroll-down", "browser-scroll-up", "browser-scroll-to-text",
		"browser-switch-tab", "browser-close-tab", "browser-get-dropdown-options",
		"browser-select-dropdown-option", "browser-drag-drop",
	}
	assert.ElementsMatch(t, expected, toolbox.Names())
	assert.Equal(t, len(expected), toolbox.Len())
}

// TestGet verifies that lookups ignore case and return the canonical name.
func TestGet(t *testing.T) {
	toolbox := Default()

	def, ok := toolbox.Get("Create-FILE")
	require.True(t, ok, "Expected lookup to ignore case")
	assert.Equal(t, "create-file", def.Name)
	assert.Equal(t, "Creating file", def.DisplayLabel())
	assert.True(t, def.IsFile())

	_, ok = toolbox.Get("foo")
	assert.False(t, ok, "Unknown tools should not be found")

	def, ok = toolbox.Get("execute-command")
	require.True(t, ok)
	assert.False(t, def.IsFile())
}

func TestHasPrefix(t *testing.T) {
	toolbox := Default()

	assert.True(t, toolbox.HasPrefix(""))
	assert.True(t, toolbox.HasPrefix("brow"))
	assert.True(t, toolbox.HasPrefix("BROWSER-S"))
	assert.True(t, toolbox.HasPrefix("notify"))
	assert.False(t, toolbox.HasPrefix("notifyx"))
	assert.False(t, toolbox.HasPrefix("div"))

	var empty *Toolbox
	assert.False(t, empty.HasPrefix(""))
}

// TestAddDuplicate verifies that the same tool can't be added twice.
func TestAddDuplicate(t *testing.T) {
	toolbox := Box(Def{Name: "ask"})
	assert.Panics(t, func() {
		toolbox.Add(Def{Name: "ASK"})
	})
	assert.Panics(t, func() {
		toolbox.Add(Def{Name: "bad name"})
	})
}

// TestWith verifies that With extends a copy and leaves the original alone.
func TestWith(t *testing.T) {
	base := Box(Def{Name: "ask", Label: "Asking"})
	extended := base.With(
		Def{Name: "deploy", Label: "Deploying"},
		Def{Name: "ask", Label: "Question"},
	)

	assert.Equal(t, []string{"ask"}, base.Names())
	assert.Equal(t, []string{"ask", "deploy"}, extended.Names())

	def, ok := extended.Get("ask")
	require.True(t, ok)
	assert.Equal(t, "Question", def.Label, "Later definitions should override earlier ones")

	def, ok = base.Get("ask")
	require.True(t, ok)
	assert.Equal(t, "Asking", def.Label)
}
