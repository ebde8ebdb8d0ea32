package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pdfqa/internal/domain"
	"pdfqa/internal/logging"
)

func newAskCmd(root *rootOptions) *cobra.Command {
	var showTrace bool
	cmd := &cobra.Command{
		Use:   "ask FILE.pdf QUESTION [QUESTION...]",
		Short: "Answer one or more questions about a PDF",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if root.logLevel == "" {
				cfg.Log.Level = "warn"
			}
			log := logging.New(logging.Config{Level: cfg.Log.Level, Format: "console"})

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
				color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
				return err
			}
			color.New(color.FgGreen).Printf("✓ %s loaded\n", doc.Name)

			out := cmd.OutOrStdout()
			for _, q := range args[1:] {
				sp := newSpinner("Answering")
				sp.Start()
				trace, err := a.svc.Ask(ctx, doc.ID, q)
				sp.Stop()
				if err != nil {
					color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s: %v\n", q, err)
					return err
				}
				printTrace(out, trace, showTrace)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTrace, "trace", false, "show the English question and answer")
	return cmd
}

// uploadWithWarmup reads and uploads path while the answer model loads.
func uploadWithWarmup(ctx context.Context, a *app, path string) (domain.UploadResult, error) {
	var doc domain.UploadResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_ = a.engine.Init(gctx)
		return nil
	})
	g.Go(func() error {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err = a.svc.Upload(gctx, filepath.Base(path), raw)
		return err
	})
	return doc, g.Wait()
}

func newSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + msg
	s.Writer = os.Stderr
	return s
}

func printTrace(w io.Writer, t domain.AskTrace, verbose bool) {
	label := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", label("Q:"), t.QuestionOriginal)
	fmt.Fprintf(w, "%s %s\n", label("A:"), t.AnswerTranslated)
	if verbose {
		fmt.Fprintf(w, "   lang=%s\n", t.DetectedLang)
		fmt.Fprintf(w, "   question_en: %s\n", t.QuestionEnglish)
		fmt.Fprintf(w, "   answer_en:   %s\n", t.AnswerEnglish)
	}
	for _, warn := range t.Warnings {
		color.New(color.FgYellow).Fprintf(w, "⚠ %s\n", warn)
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))
}
