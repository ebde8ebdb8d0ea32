package main

import (
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pdfqa/internal/logging"
	"pdfqa/internal/tui"
)

func newTUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui FILE.pdf",
		Short: "Ask questions about a PDF interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			// the terminal belongs to the UI
			log := logging.New(logging.Config{Level: "disabled", Output: io.Discard})

			ctx := cmd.Context()
			a, err := assemble(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			sp := newSpinner("Reading " + filepath.Base(args[0]))
			sp.Start()
			doc, err := uploadWithWarmup(ctx, a, args[0])
			sp.Stop()
			if err != nil {
				return err
			}

			m := tui.New(ctx, a.svc, doc)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stdout)).Run()
			return err
		},
	}
}
