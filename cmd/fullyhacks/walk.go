package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fullyhacks/internal/source"
	"fullyhacks/internal/store"
	"fullyhacks/internal/style"
	"fullyhacks/internal/trace"
	"fullyhacks/internal/transcript"
	"fullyhacks/internal/walkthrough"
)

var walkCmd = &cobra.Command{
	Use:     "walkthrough",
	Aliases: []string{"walk"},
	Short:   "Run the narrated SQLite CRUD walkthrough",
	Args:    cobra.NoArgs,
	RunE:    runWalk,
}

// exitFunc terminates the process when --assert finds drifted output.
var exitFunc = os.Exit

func init() {
	walkCmd.Flags().String("db", "", "SQLite database file (default from config: test.db)")
	walkCmd.Flags().Bool("assert", false, "fail when the printed messages drift from the documented output")
}

func runWalk(cmd *cobra.Command, _ []string) error {
	s := current
	cfg := s.cfg.Walk
	if err := overrideString(cmd, "db", &cfg.DB); err != nil {
		return err
	}
	if err := overrideBool(cmd, "assert", &cfg.Assert); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := []trace.Option{
		trace.WithWriter(out),
		trace.WithRenderer(style.ForMode(s.color, stdoutFile(cmd))),
		trace.WithLoader(source.ChainLoader{source.DiskLoader{}, walkthrough.Sources}),
	}
	var rec *transcript.Transcript
	if cfg.Assert {
		rec = transcript.New()
		opts = append(opts, trace.WithTranscript(rec))
	}
	tr := trace.New(opts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var st *store.Store
	err := s.timer.Track("open", func() error {
		var err error
		st, err = store.Open(ctx, cfg.DB)
		return err
	})
	if err != nil {
		return err
	}
	defer st.Close()
	s.logger.Debug("database opened", zap.String("path", cfg.DB))

	if err := s.timer.Track("walkthrough", func() error {
		return walkthrough.Run(trace.WithTracer(ctx, tr), st)
	}); err != nil {
		return fmt.Errorf("walkthrough: %w", err)
	}

	if rec != nil {
		idx := s.timer.Begin("assert")
		transcript.Harness{Out: out, Exit: exitFunc, Diff: true}.Assert(rec, walkthrough.ExpectedTranscript)
		s.timer.End(idx, "")
	}
	return nil
}
