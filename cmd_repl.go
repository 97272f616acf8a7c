package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/blixt/tagstream/stream"
	"github.com/blixt/tagstream/tagstream"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Type a response line by line and watch it being parsed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The liner package makes the input prompt a lot nicer to use, supporting
		// arrow keys and common keyboard shortcuts.
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		out := cmd.OutOrStdout()
		p := tagstream.New(cfg.ParserOptions(log)...)
		var tracker stream.Tracker
		fmt.Fprintln(out, `Each line is added to the stream. Type "exit" or press Ctrl-D to end it.`)
		for {
			input, err := line.Prompt("> ")
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) || input == "exit" {
				break
			}
			if err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			line.AppendHistory(input)
			printUpdates(out, tracker.Diff(p.Feed(input+"\n")))
		}
		parts := p.Finish()
		printUpdates(out, tracker.Diff(parts))
		return printParts(out, parts, false)
	},
}

func printUpdates(out io.Writer, updates []stream.Update) {
	for _, u := range updates {
		fmt.Fprintln(out, describeUpdate(u))
	}
}

// describeUpdate returns a one line summary of an update.
func describeUpdate(u stream.Update) string {
	switch u := u.(type) {
	case stream.TextUpdate:
		if u.Replaced {
			return fmt.Sprintf("text #%d replaced: %s", u.Index, strconv.Quote(u.Text))
		}
		return fmt.Sprintf("text #%d: %s", u.Index, strconv.Quote(u.Delta))
	case stream.ToolStartUpdate:
		return fmt.Sprintf("%s started: <%s> (%s)", u.Tag.ID, u.Tag.Name, u.Tag.State)
	case stream.ToolDataUpdate:
		return fmt.Sprintf("%s data: %s %v", u.Tag.ID, strconv.Quote(u.Delta), u.Tag.Attributes)
	case stream.ToolDoneUpdate:
		return fmt.Sprintf("%s done: %d bytes", u.Tag.ID, len(u.Tag.Content))
	case stream.ToolDroppedUpdate:
		return fmt.Sprintf("%s dropped", u.ID)
	case stream.ErrorUpdate:
		return fmt.Sprintf("error: %v", u.Error)
	}
	return string(u.Type())
}
