package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/lyricslink/internal/config"
	"github.com/ewilliams-labs/lyricslink/internal/logger"
)

// daemonAnnotation marks long-running commands, which keep the configured
// console log sink. One-shot commands log to the console only with
// --verbose.
const daemonAnnotation = "daemon"

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath string
		envFile    string
		verbose    bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:           "lyricslink",
		Short:         "Find the genius.com lyrics page of a track",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, envFile)
			if err != nil {
				return err
			}
			opts := logger.Options{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				Console:    cfg.Log.Console && cmd.Annotations[daemonAnnotation] != "",
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			}
			if verbose {
				opts.Level = "debug"
				opts.Console = true
			}
			log, err := logger.New(opts)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file (default "+config.DefaultFile+" when present)")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file exported before reading "+config.EnvPrefix+" variables")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every probe to stderr")

	root.AddCommand(
		newNowCmd(a),
		newResolveCmd(a),
		newFileCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
	)

	return root
}
