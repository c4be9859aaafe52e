package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"

	"github.com/MimeLyc/idiom-merger/internal/config"
	"github.com/MimeLyc/idiom-merger/internal/errs"
	"github.com/MimeLyc/idiom-merger/internal/matcher"
	"github.com/MimeLyc/idiom-merger/internal/service"
	"github.com/MimeLyc/idiom-merger/pkg/log"
)

var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

func init() {
	commands = []*command{
		listCommand(),
		buildCommand(),
		inspectCommand(),
		mergeCommand(),
	}
}

func listCommand() *command {
	var all, stats bool

	return &command{
		name:    "list",
		summary: "print the idiom vocabulary",
		flags: func(fs *pflag.FlagSet) {
			fs.BoolVar(&all, "all", false, "print every idiom, not only targets")
			fs.BoolVar(&stats, "stats", false, "print policy statistics instead of idioms")
		},
		run: func(cfg *config.Config, args []string) error {
			loader, err := cfg.IdiomsLoader()
			if err != nil {
				return err
			}

			if stats {
				summary, err := loader.Summarize()
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "policy=%s %s\n", loader.Policy.Name, summary)
				return nil
			}

			targetOnly := cfg.Dictionary.TargetOnly && !all
			for idiom, err := range loader.Load(targetOnly) {
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, idiom)
			}
			return nil
		},
	}
}

func buildCommand() *command {
	var out, compression string

	return &command{
		name:    "build",
		summary: "compile the vocabulary into a matcher blob",
		flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&out, "out", "o", "", "output path (default: configured matcher path)")
			fs.StringVar(&compression, "compression", "", "none or zstd (default: MATCHER_COMPRESSION)")
		},
		run: func(cfg *config.Config, args []string) error {
			if out == "" {
				out = cfg.Matcher.Path
			}
			codec := cfg.Compression()
			if compression != "" {
				parsed, err := matcher.ParseCompression(compression)
				if err != nil {
					return errs.Wrap(err, errs.Validation, "invalid --compression")
				}
				codec = parsed
			}

			loader, err := cfg.IdiomsLoader()
			if err != nil {
				return err
			}

			m, err := matcher.Build(loader.Load(cfg.Dictionary.TargetOnly), cfg.Matcher.FoldCase)
			if err != nil {
				return err
			}
			if err := matcher.Save(out, m, codec); err != nil {
				return err
			}

			log.Info("Built %d patterns from %s", m.Len(), cfg.Dictionary.Path)
			fmt.Fprintf(stdout, "%s: %d patterns (%s)\n", out, m.Len(), codec)
			return nil
		},
	}
}

func inspectCommand() *command {
	var patterns bool

	return &command{
		name:    "inspect",
		summary: "describe a matcher blob",
		flags: func(fs *pflag.FlagSet) {
			fs.BoolVar(&patterns, "patterns", false, "list registered patterns")
		},
		run: func(cfg *config.Config, args []string) error {
			path := cfg.Matcher.Path
			switch len(args) {
			case 0:
			case 1:
				path = args[0]
			default:
				return errs.New(errs.Validation, "inspect takes at most one path")
			}

			m, err := matcher.NewLoader(path).Load()
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "path: %s\npatterns: %d\nfold_case: %t\n", path, m.Len(), m.FoldCase())
			if patterns {
				for _, p := range m.Patterns() {
					fmt.Fprintf(stdout, "%s\t%s\n", p.Key, strings.Join(p.Tokens, " | "))
				}
			}
			return nil
		},
	}
}

func mergeCommand() *command {
	var format string
	var watch bool

	return &command{
		name:    "merge",
		summary: "merge idioms in stdin lines into single tokens",
		flags: func(fs *pflag.FlagSet) {
			fs.StringVar(&format, "format", "tokens", "tokens (tab-separated) or text")
			fs.BoolVar(&watch, "watch", false, "reload on RELOAD_CRON while reading")
		},
		run: func(cfg *config.Config, args []string) error {
			if format != "tokens" && format != "text" {
				return errs.New(errs.Validation, "unknown --format").WithContext("format", format)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scheduler := cron.New()
			svc := service.NewVocabularyService(*cfg, scheduler)
			if err := svc.Reload(ctx); err != nil {
				return err
			}

			if watch {
				if err := svc.Schedule(ctx); err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()
			}

			scanner := bufio.NewScanner(stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				if ctx.Err() != nil {
					return nil
				}

				result, err := svc.Merge(scanner.Text())
				if err != nil {
					return err
				}

				if format == "text" {
					fmt.Fprintln(stdout, result.Text())
				} else {
					fmt.Fprintln(stdout, strings.Join(result.Tokens, "\t"))
				}
			}
			if err := scanner.Err(); err != nil {
				return errs.Wrap(err, errs.FileRead, "read input")
			}
			return nil
		},
	}
}
