// Command sheetctl is a thin, line-oriented front end over the
// spreadsheet engine: it holds one in-process Sheet for the lifetime
// of the run and applies SET/GET/CLEAR/PRINT commands read from
// stdin or a script file. It is pure plumbing around the already-
// complete engine (SPEC_FULL.md, DOMAIN STACK) — no persistence, no
// additional engine capability.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/vogtb-labs/cellsheet/internal/config"
	"github.com/vogtb-labs/cellsheet/internal/position"
	"github.com/vogtb-labs/cellsheet/internal/sheet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var scriptPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sheetctl",
		Short: "Run SET/GET/CLEAR/PRINT commands against an in-memory sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zapcore.InfoLevel
			if verbose {
				level = zapcore.DebugLevel
			}
			logger := config.MustNewLogger(level)
			defer logger.Sync() //nolint:errcheck

			s := sheet.New(sheet.WithLogger(logger))

			in := io.Reader(os.Stdin)
			if scriptPath != "" {
				f, err := os.Open(scriptPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runREPL(s, in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "read commands from a file instead of stdin")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	return cmd
}

// runREPL reads one command per line from in and writes results to
// out. It never returns an error for a rejected command — rejections
// are printed, matching a spreadsheet UI surfacing a bad edit rather
// than crashing the session.
func runREPL(s *sheet.Sheet, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := dispatch(s, line, out); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func dispatch(s *sheet.Sheet, line string, out io.Writer) error {
	fields := strings.SplitN(line, " ", 3)
	switch strings.ToLower(fields[0]) {
	case "set":
		if len(fields) < 3 {
			return fmt.Errorf("usage: set <addr> <text>")
		}
		pos := position.FromString(strings.ToUpper(fields[1]))
		return s.SetCell(pos, fields[2])

	case "clear":
		if len(fields) < 2 {
			return fmt.Errorf("usage: clear <addr>")
		}
		pos := position.FromString(strings.ToUpper(fields[1]))
		return s.ClearCell(pos)

	case "get":
		if len(fields) < 2 {
			return fmt.Errorf("usage: get <addr>")
		}
		pos := position.FromString(strings.ToUpper(fields[1]))
		cell, err := s.GetCell(pos)
		if err != nil {
			return err
		}
		if cell == nil {
			fmt.Fprintln(out)
			return nil
		}
		fmt.Fprintln(out, cell.GetValue().AsString())
		return nil

	case "print":
		if len(fields) < 2 {
			return fmt.Errorf("usage: print values|texts")
		}
		switch strings.ToLower(fields[1]) {
		case "values":
			return s.PrintValues(out)
		case "texts":
			return s.PrintTexts(out)
		default:
			return fmt.Errorf("usage: print values|texts")
		}

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}
