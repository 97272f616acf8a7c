package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/blixt/tagstream/stream"
	"github.com/blixt/tagstream/syncbuffer"
	"github.com/blixt/tagstream/tagstream"
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Replay a recorded response as if it was streaming",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chunk, _ := cmd.Flags().GetInt("chunk")
		delay, _ := cmd.Flags().GetDuration("delay")
		sse, _ := cmd.Flags().GetBool("sse")

		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		buf := syncbuffer.New(cfg.Server.BufferSize)
		go replay(buf, data, chunk, delay)

		var src stream.Source
		if sse {
			src = stream.SSE(buf)
		} else {
			src = stream.Reader(buf, 4096)
		}
		st := stream.New(src, tagstream.New(cfg.ParserOptions(log)...))
		return render(cmd.OutOrStdout(), st, cfg.Toolbox(), log)
	},
}

// replay writes data to buf a chunk at a time and then closes it.
func replay(buf *syncbuffer.SyncBuffer, data []byte, chunk int, delay time.Duration) {
	if chunk < 1 {
		chunk = 1
	}
	for len(data) > 0 {
		n := min(chunk, len(data))
		if _, err := buf.Write(data[:n]); err != nil {
			return
		}
		data = data[n:]
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	buf.Close()
}
