package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"furigana/annotate"
	"furigana/config"
	"furigana/ingest"
	"furigana/kana"
	"furigana/logger"
	"furigana/render"
	"furigana/tokenize"
)

type options struct {
	cfg   *config.Config
	stdin bool
}

func newRootCmd() *cobra.Command {
	opts := &options{cfg: config.Load()}

	rootCmd := &cobra.Command{
		Use:   "furigana <text>",
		Short: "Annotate Japanese text with furigana",
		Long: `furigana splits Japanese text into morphemes, aligns each morpheme's reading with
its kanji and prints the text with readings, e.g. 澱(よど)んだ街角(まちかど).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts.cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args, opts)
		},
	}

	cfg := opts.cfg
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.Analyzer.Dict, "dict", cfg.Analyzer.Dict, "analyzer dictionary: ipa or uni")
	pf.StringVar(&cfg.Analyzer.Converter, "converter", cfg.Analyzer.Converter, "kana converter: table or nfkc")
	pf.DurationVar(&cfg.Analyzer.CacheTTL, "cache-ttl", cfg.Analyzer.CacheTTL, "how long annotations are memoized (0 disables)")
	pf.IntVar(&cfg.Analyzer.Workers, "workers", cfg.Analyzer.Workers, "concurrent alignments for batch requests")
	pf.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn, error")
	pf.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format: text or json")

	f := rootCmd.Flags()
	f.StringVarP(&cfg.Output.Format, "format", "f", cfg.Output.Format, "output format: html, plain or json")
	f.StringVar(&cfg.Output.DumpDir, "dump-dir", cfg.Output.DumpDir, "write each annotation as JSON into this directory")
	f.BoolVar(&opts.stdin, "stdin", false, "annotate standard input line by line")
	f.Bool("no-spaces", false, "drop the text between morphemes")

	rootCmd.AddCommand(newServeCmd(opts))
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "furigana:", err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, cfg *config.Config) error {
	l, err := logger.New(w, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	return nil
}

// newAnnotator builds the analyzer and annotator described by cfg.
func newAnnotator(ctx context.Context, cfg *config.Config) (*annotate.Annotator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conv, err := kana.ConverterByName(cfg.Analyzer.Converter)
	if err != nil {
		return nil, err
	}
	tk, err := tokenize.New(cfg.Analyzer.Dict)
	if err != nil {
		return nil, err
	}
	opts := []annotate.Option{
		annotate.WithReadingField(tk.ReadingField()),
		annotate.WithConverter(conv),
		annotate.WithCache(cfg.Analyzer.CacheTTL),
		annotate.WithLogger(slog.Default()),
	}
	if !cfg.Analyzer.PreserveSpaces {
		opts = append(opts, annotate.WithoutSpaces())
	}
	return annotate.New(ctx, tk, opts...)
}

func runAnnotate(cmd *cobra.Command, args []string, opts *options) error {
	cfg := opts.cfg
	if noSpaces, _ := cmd.Flags().GetBool("no-spaces"); noSpaces {
		cfg.Analyzer.PreserveSpaces = false
	}
	if !opts.stdin && len(args) == 0 {
		return errors.New("missing text argument (or use --stdin)")
	}
	renderFn, err := render.ByName(cfg.Output.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newAnnotator(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.Output.DumpDir != "" {
		if err := logger.InitLogs(cfg.Output.DumpDir); err != nil {
			return fmt.Errorf("init dump dir: %w", err)
		}
	}
	out := cmd.OutOrStdout()

	if !opts.stdin {
		s, err := ingest.NewSentence(args[0])
		if err != nil {
			return err
		}
		segs, err := a.Annotate(ctx, s.Text)
		if err != nil {
			return err
		}
		if err := dump(cfg, annotate.Result{Sentence: s, Segments: segs}); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, renderFn(segs))
		return err
	}

	sentences, readErrs := ingest.ReadLines(ctx, cmd.InOrStdin())
	var failed int
	for res := range a.Stream(ctx, sentences) {
		if res.Err != nil {
			failed++
			continue
		}
		if err := dump(cfg, res); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, renderFn(res.Segments)); err != nil {
			return err
		}
	}
	if err := <-readErrs; err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d line(s) could not be annotated", failed)
	}
	return nil
}

func dump(cfg *config.Config, res annotate.Result) error {
	if cfg.Output.DumpDir == "" {
		return nil
	}
	if err := logger.LogJSON(cfg.Output.DumpDir, res.Sentence.ID, res); err != nil {
		return fmt.Errorf("dump %s: %w", res.Sentence.ID, err)
	}
	return nil
}
