package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/justsurfingit/outreach-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  <id> <field> <value>   edit a field (saved after the debounce interval)
  :commit <id> <field> <value>
                         edit a field and save it now
  :state <id> <field>    show the save state of a field
  :list                  show all applications
  :add                   create a placeholder application
  :delete <id>           delete an application
  :refresh               reload from the server
  :flush                 save every pending edit now
  :quit                  flush pending edits and exit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive editor with debounced saves",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd, state.sync, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runShell(cmd *cobra.Command, s *tracker.Synchronizer, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, shellHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := shellLine(cmd, s, line, out)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func shellLine(cmd *cobra.Command, s *tracker.Synchronizer, line string, out io.Writer) (bool, error) {
	fields := strings.Fields(line)
	ctx := cmd.Context()

	switch fields[0] {
	case ":quit", ":q":
		return true, nil
	case ":help":
		fmt.Fprintln(out, shellHelp)
	case ":list":
		printTable(out, s)
	case ":flush":
		s.FlushAll()
	case ":refresh":
		return false, s.Refetch(ctx)
	case ":add":
		app, err := s.Add(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(out, app.ID)
	case ":delete":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :delete <id>")
		}
		return false, s.Delete(ctx, fields[1])
	case ":state":
		if len(fields) != 3 {
			return false, fmt.Errorf("usage: :state <id> <field>")
		}
		saveState := s.SaveState(fields[1], fields[2]).String()
		if s.Pending(fields[1], fields[2]) {
			saveState += " (pending)"
		}
		fmt.Fprintln(out, saveState)
	case ":commit":
		id, field, value, err := splitEdit(line, 1)
		if err != nil {
			return false, err
		}
		return false, s.CommitNow(id, field, value)
	default:
		if strings.HasPrefix(fields[0], ":") {
			return false, fmt.Errorf("unknown command %s", fields[0])
		}
		id, field, value, err := splitEdit(line, 0)
		if err != nil {
			return false, err
		}
		return false, s.Edit(id, field, value, false)
	}
	return false, nil
}

// splitEdit parses "<id> <field> <value...>" after skipping the first skip
// words. The value keeps its inner spacing and may be empty.
func splitEdit(line string, skip int) (id, field, value string, err error) {
	rest := line
	for i := 0; i < skip+2; i++ {
		rest = strings.TrimLeft(rest, " \t")
		word, tail := rest, ""
		if j := strings.IndexAny(rest, " \t"); j >= 0 {
			word, tail = rest[:j], rest[j+1:]
		}
		switch i - skip {
		case 0:
			id = word
		case 1:
			field = word
		}
		rest = tail
	}
	if id == "" || field == "" {
		return "", "", "", fmt.Errorf("usage: <id> <field> <value>")
	}
	return id, field, strings.TrimLeft(rest, " \t"), nil
}
