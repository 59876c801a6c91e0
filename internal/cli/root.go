// Package cli implements the mockboard command-line interface.
//
// Without a subcommand mockboard opens the desktop board. The mcp
// subcommand serves the same board commands over stdio for agents, and
// layout arranges a collection offline.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mockboard/internal/app"
	"mockboard/internal/config"
)

// GUIRunner starts the desktop window. It lives in package main, which owns
// the embedded frontend assets.
type GUIRunner func(ctx context.Context, a *app.App) error

// nopEmitter drops service events in commands without a frontend.
type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}

type rootState struct {
	cfgPath string
	verbose bool
	cfg     *config.Config
}

// Execute runs the mockboard CLI.
func Execute(ctx context.Context, runGUI GUIRunner) error {
	return newRootCmd(runGUI, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(runGUI GUIRunner, logOut io.Writer) *cobra.Command {
	st := &rootState{}

	root := &cobra.Command{
		Use:          "mockboard",
		Short:        "mockboard lays out app screens on a canvas and maps their navigation",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if st.verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(logOut, level)
			cmd.SetContext(withLogger(cmd.Context(), logger))

			if st.cfgPath == "" {
				st.cfgPath = config.DefaultPath()
			}
			cfg, err := config.Load(st.cfgPath)
			if err != nil {
				return err
			}
			st.cfg = cfg
			logger.Debug("config loaded", "path", st.cfgPath, "backend", cfg.Storage.Backend)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&st.cfgPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "enable verbose logging")

	gui := newGUICmd(st, runGUI)
	root.RunE = gui.RunE

	root.AddCommand(gui)
	root.AddCommand(newMCPCmd(st))
	root.AddCommand(newLayoutCmd(st))
	root.AddCommand(newCollectionsCmd(st))
	root.AddCommand(newConfigCmd(st))
	return root
}

func newGUICmd(st *rootState, runGUI GUIRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop board (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runGUI == nil {
				return fmt.Errorf("this build has no desktop frontend")
			}
			logger := loggerFromContext(cmd.Context())
			return runGUI(cmd.Context(), app.New(st.cfg, st.cfgPath, logger))
		},
	}
}

func newMCPCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve board tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ServeMCP(cmd.Context(), st.cfg, loggerFromContext(cmd.Context()))
		},
	}
}

func newConfigCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current settings (defaults merged with any existing file)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(st.cfg, st.cfgPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.cfgPath)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), st.cfgPath)
			return nil
		},
	})
	return cmd
}
