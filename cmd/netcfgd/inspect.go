package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/coreflux/netcfgd/adapters/filesource"
	"github.com/coreflux/netcfgd/core/logging"
	"github.com/coreflux/netcfgd/core/module"
	"github.com/coreflux/netcfgd/internal/tui"
	"github.com/coreflux/netcfgd/modules/core"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Launch a read-only TUI over the coordinator's registered modules",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger := logging.New()
	ctx := context.Background()

	src := filesource.New(cfgFile)
	text, err := src.Read(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfgFile, err)
	}

	coord := module.New(logger, nil)
	coreMod, _ := core.New(logger)
	if err := coord.Register(ctx, coreMod); err != nil {
		return err
	}
	// Best-effort: inspect still shows schemas even if the text fails to
	// dispatch cleanly; the call counters then reflect only the entries
	// handled before the failure.
	_ = coord.StartAll(ctx, text)

	p := tea.NewProgram(tui.New(coord))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
