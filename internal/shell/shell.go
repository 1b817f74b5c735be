// Package shell executes the commands typed on the interactive prompt.
package shell

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/badtuple/pipelang"
	"github.com/badtuple/pipelang/internal/metrics"
	"github.com/badtuple/pipelang/interpreter"
)

// ErrExit is returned by Execute when the user asks to leave the shell
var ErrExit = errors.New("exit requested")

const helpText = `commands:
  query <query>            compile a query, e.g. query @sensor | batch
  push <source> <values>   push a YAML list of values, e.g. push sensor [1, 2, [3]]
  process <source>         process the pending values of a source
  filters                  list the registered filters
  metrics                  show the interpreter metrics
  help                     show this message
  exit                     leave the shell
`

type Shell struct {
	interp *interpreter.Interpreter
}

func New(interp *interpreter.Interpreter) *Shell {
	return &Shell{
		interp: interp,
	}
}

// Execute runs a single command line and returns the text to show the user
func (s *Shell) Execute(line string) (string, error) {
	cmd, args := splitWord(strings.TrimSpace(line))

	switch cmd {
	case "":
		return "", nil

	case "help":
		return helpText, nil

	case "exit", "quit":
		return "", ErrExit

	case "filters":
		return strings.Join(s.interp.Filters(), "\n") + "\n", nil

	case "metrics":
		var buf bytes.Buffer
		err := metrics.WriteText(&buf, s.interp.Gatherer())
		return buf.String(), err

	case "query":
		source, err := s.interp.CompileAndRegister(args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("pipeline registered for source %q\n", source), nil

	case "push":
		source, values := splitWord(args)
		if source == "" {
			return "", fmt.Errorf("usage: push <source> <values>")
		}

		datums, err := pipelang.DecodeDatums([]byte(values))
		if err != nil {
			return "", err
		}

		err = s.interp.Push(source, datums...)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("pushed %d values to %q\n", len(datums), source), nil

	case "process":
		if args == "" {
			return "", fmt.Errorf("usage: process <source>")
		}

		out, err := s.interp.Process(args)
		if err != nil {
			return "", err
		}

		b, err := pipelang.EncodeDatums(out)
		return string(b), err
	}

	return "", fmt.Errorf("unknown command %q, type help for the list of commands", cmd)
}

// splitWord returns the first word of s and the trimmed rest of it
func splitWord(s string) (word string, rest string) {
	i := strings.IndexAny(s, " \t")
	if i == -1 {
		return s, ""
	}

	return s[:i], strings.TrimSpace(s[i:])
}
