package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/badtuple/pipelang/internal/shell"
)

const prompt = "pipelang> "

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, _, err := newInterpreter()
		if err != nil {
			return err
		}
		sh := shell.New(interp)

		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		line.SetCompleter(completer)

		history := historyPath()
		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}

		fmt.Fprintln(cmd.OutOrStdout(), "pipelang shell, type help for the list of commands")

		for {
			input, err := line.Prompt(prompt)
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			if strings.TrimSpace(input) != "" {
				line.AppendHistory(input)
			}

			out, err := sh.Execute(input)
			if errors.Is(err, shell.ErrExit) {
				break
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "ERROR:", err)
				continue
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}

		if f, err := os.Create(history); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}

		return nil
	},
}

var commands = []string{"query ", "push ", "process ", "filters", "metrics", "help", "exit"}

func completer(line string) (c []string) {
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, strings.ToLower(line)) {
			c = append(c, cmd)
		}
	}
	return c
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".pipelang_history")
	}
	return filepath.Join(home, ".pipelang_history")
}
