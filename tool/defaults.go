package tool

var filePathAttributes = []string{"file_path", "path", "target_file"}

// Default returns a toolbox with the tools an agent backend emits.
func Default() *Toolbox {
	return Box(
		Def{Name: "ask", Label: "Asking", Kind: KindMessage},
		Def{Name: "notify", Label: "Notifying", Kind: KindMessage},
		Def{Name: "complete", Label: "Completing task", Kind: KindControl},

		Def{Name: "create-file", Label: "Creating file", Kind: KindFile, PathAttributes: filePathAttributes},
		Def{Name: "full-file-rewrite", Label: "Rewriting file", Kind: KindFile, PathAttributes: filePathAttributes},
		Def{Name: "str-replace", Label: "Editing file", Kind: KindFile, PathAttributes: filePathAttributes},
		Def{Name: "read-file", Label: "Reading file", Kind: KindSearch},
		Def{Name: "create-directory", Label: "Creating directory", Kind: KindCommand},
		Def{Name: "list-directory", Label: "Listing directory", Kind: KindSearch},
		Def{Name: "search-code", Label: "Searching code", Kind: KindSearch},
		Def{Name: "execute-command", Label: "Running command", Kind: KindCommand},

		Def{Name: "browser-navigate-to", Label: "Navigating", Kind: KindBrowser},
		Def{Name: "browser-click-element", Label: "Clicking element", Kind: KindBrowser},
		Def{Name: "browser-input-text", Label: "Typing text", Kind: KindBrowser},
		Def{Name: "browser-go-back", Label: "Going back", Kind: KindBrowser},
		Def{Name: "browser-wait", Label: "Waiting", Kind: KindBrowser},
		Def{Name: "browser-scroll-down", Label: "Scrolling down", Kind: KindBrowser},
		Def{Name: "browser-scroll-up", Label: "Scrolling up", Kind: KindBrowser},
		Def{Name: "browser-scroll-to-text", Label: "Scrolling to text", Kind: KindBrowser},
		Def{Name: "browser-switch-tab", Label: "Switching tab", Kind: KindBrowser},
		Def{Name: "browser-close-tab", Label: "Closing tab", Kind: KindBrowser},
		Def{Name: "browser-get-dropdown-options", Label: "Reading dropdown", Kind: KindBrowser},
		Def{Name: "browser-select-dropdown-option", Label: "Selecting option", Kind: KindBrowser},
		Def{Name: "browser-drag-drop", Label: "Dragging", Kind: KindBrowser},
	)
}
