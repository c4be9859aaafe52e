package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/MimeLyc/idiom-merger/internal/config"
	"github.com/MimeLyc/idiom-merger/internal/errs"
	"github.com/MimeLyc/idiom-merger/pkg/log"
)

type command struct {
	name    string
	summary string
	flags   func(fs *pflag.FlagSet)
	run     func(cfg *config.Config, args []string) error
}

var commands []*command

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	global := pflag.NewFlagSet("idiomctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	dictPath := global.String("dict", "", "idiom dictionary (overrides IDIOM_DICT_PATH)")
	matcherPath := global.String("matcher", "", "matcher blob (overrides IDIOM_MATCHER_PATH)")
	policy := global.String("policy", "", "denylist or exception (overrides IDIOM_POLICY)")
	logLevel := global.String("log-level", "", "debug, info, warn, error (overrides LOG_LEVEL)")
	global.Usage = func() { printUsage(global) }

	if err := global.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(global)
		return 2
	}

	cmd := findCommand(rest[0])
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", rest[0])
		printUsage(global)
		return 2
	}

	var opts []config.Option
	if *dictPath != "" {
		opts = append(opts, config.WithDictionaryPath(*dictPath))
	}
	if *matcherPath != "" {
		opts = append(opts, config.WithMatcherPath(*matcherPath))
	}
	if *policy != "" {
		opts = append(opts, config.WithPolicy(*policy))
	}

	cfg, err := config.New(opts...)
	if err != nil {
		errs.Handle(err)
		return 1
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log.InitLogger(log.ParseLevel(level))

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(rest[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := cmd.run(cfg, fs.Args()); err != nil {
		errs.Handle(err)
		return 1
	}
	return 0
}

func findCommand(name string) *command {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd
		}
	}
	return nil
}

func printUsage(global *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: idiomctl [flags] <command> [command flags]\n\nCommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(os.Stderr, "\nFlags:\n%s", global.FlagUsages())
}
