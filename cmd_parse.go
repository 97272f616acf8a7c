package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/blixt/tagstream/tagstream"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a complete response and print its parts",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		parts := tagstream.Parse(string(data), cfg.ParserOptions(log)...)
		return printParts(cmd.OutOrStdout(), parts, asJSON)
	},
}

// readInput reads the file named by the first argument, or stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return data, nil
}

func printParts(out io.Writer, parts []tagstream.Part, asJSON bool) error {
	data, err := json.MarshalIndent(parts, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding parts: %w", err)
	}
	if !asJSON {
		if data, err = yaml.JSONToYAML(data); err != nil {
			return fmt.Errorf("error encoding parts: %w", err)
		}
	} else {
		data = append(data, '\n')
	}
	_, err = out.Write(data)
	return err
}
