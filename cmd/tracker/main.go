package main

import (
	"context"
	"fmt"
	"os"

	"github.com/justsurfingit/outreach-tracker/internal/client"
	"github.com/justsurfingit/outreach-tracker/internal/config"
	"github.com/justsurfingit/outreach-tracker/internal/logging"
	"github.com/justsurfingit/outreach-tracker/internal/terminal"
	"github.com/justsurfingit/outreach-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand.
type app struct {
	cfg    *config.Config
	sync   *tracker.Synchronizer
	closer interface{ Close() error }
}

var (
	state    app
	noBrowse bool
)

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "Track job applications and founder outreach",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `tracker edits job applications stored by the applications API.

Edits are applied locally at once and saved in the background. In the
interactive shell, edits to the same field within the debounce window are
coalesced into a single save.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if offline(cmd) {
			return nil
		}
		cfg, err := config.Load(".env")
		if err != nil {
			return err
		}
		state.cfg = cfg
		state.closer = logging.Setup("[tracker] ", cfg.LogFile)

		out := cmd.OutOrStdout()
		backend := client.New(cfg.APIBase, cfg.HTTPTimeout)
		tcfg := tracker.DefaultConfig()
		tcfg.Debounce = cfg.Debounce
		tcfg.SaveStateTTL = cfg.SaveStateTTL
		tcfg.UserID = cfg.UserID

		state.sync = tracker.New(backend,
			terminal.NewNotifier(cmd.ErrOrStderr()),
			terminal.Clipboard{},
			terminal.Browser{Disabled: noBrowse, Out: out},
			tcfg,
		)
		return state.sync.Load(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdown()
	},
}

// offline reports whether cmd runs without contacting the server.
func offline(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return true
		}
	}
	return false
}

func shutdown() {
	if state.sync != nil {
		state.sync.FlushAll()
		state.sync.Wait()
		state.sync.Close()
	}
	if state.closer != nil {
		state.closer.Close()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noBrowse, "no-browser", false, "print LinkedIn URLs instead of opening them")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
