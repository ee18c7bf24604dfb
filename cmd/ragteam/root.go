package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/ragteam/config"
	"github.com/jonwraymond/ragteam/observe"
	"github.com/jonwraymond/ragteam/pipeline"
)

const shutdownTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
	outputDir  string
	stepsDir   string
	outputFile string
	verbose    bool
	clearCache bool
}

func newRootCmd() *cobra.Command {
	var o rootOptions

	cmd := &cobra.Command{
		Use:   "ragteam [flags] <topic...>",
		Short: "Research a topic with a team of agents",
		Long: `ragteam researches a topic in four stages: research with web and
scholarly search, evaluation of the sources, critical appraisal and a final
report. The report and a log of the process are written as Markdown.

Examples:
  ragteam solar power
  ragteam -v -o report.md "quantum error correction"
  ragteam --clear-cache -d reports large language model evaluation`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearch(cmd, o, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "",
		"configuration file (default: $"+config.EnvConfig+" or "+config.DefaultPath+")")

	f := cmd.Flags()
	f.StringVarP(&o.outputDir, "output-dir", "d", pipeline.DefaultOutputDir, "directory to save output files")
	f.StringVarP(&o.stepsDir, "steps-dir", "s", pipeline.DefaultStepsDir, "directory to save process logs")
	f.StringVarP(&o.outputFile, "output", "o", "", "path to save the final report (Markdown)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "show full intermediate results and timings")
	f.BoolVar(&o.clearCache, "clear-cache", false, "clear the search cache before running")

	cmd.AddCommand(newCacheCmd(&o.configPath), newCheckCmd(&o.configPath))
	return cmd
}

// applyFlags overrides configuration values with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, o rootOptions) {
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = o.outputDir
	}
	if cmd.Flags().Changed("steps-dir") {
		cfg.Output.StepsDir = o.stepsDir
	}
}

func runResearch(cmd *cobra.Command, o rootOptions, args []string) error {
	ctx := cmd.Context()
	topic := strings.Join(args, " ")
	if strings.TrimSpace(topic) == "" {
		return pipeline.ErrEmptyTopic
	}

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, o)

	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}
	defer resolver.Close()
	if err := cfg.ResolveSecrets(ctx, resolver); err != nil {
		return err
	}

	if o.clearCache && cacheExists(cfg) {
		log := observe.NewLoggerWithWriter(cfg.Telemetry.LogLevel, cmd.ErrOrStderr())
		clearBeforeRun(ctx, openCache(cfg), cmd.OutOrStdout(), log)
	}

	a, err := newApp(ctx, cfg, cmd.OutOrStdout(), o.verbose)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(sctx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}()

	_, err = a.pipeline.Run(ctx, topic, pipeline.Config{
		OutputDir:  cfg.Output.Dir,
		StepsDir:   cfg.Output.StepsDir,
		OutputFile: o.outputFile,
	})
	return err
}
