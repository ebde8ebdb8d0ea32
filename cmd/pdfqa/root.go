package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pdfqa/internal/config"
)

type rootOptions struct {
	cfgPath  string
	logLevel string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pdfqa",
		Short: "Ask questions about PDF documents in any language",
		Long: `pdfqa extracts the text of a PDF and answers questions about it.
Questions may be asked in any language: they are translated to English,
answered from the start of the document, and the answer is translated back.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "path to YAML config file (default ./config.yaml or ~/.config/pdfqa/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newServeCmd(opts), newAskCmd(opts), newTUICmd(opts))
	return cmd
}

func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if o.cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(o.cfgPath)
	}
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}
