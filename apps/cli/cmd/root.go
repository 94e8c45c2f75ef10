package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "restmd",
	Short: "Run .http requests, get Markdown back.",
	Long: heredoc.Doc(`
		restmd executes HTTP requests written in the REST-client .http format.

		Each request block is translated into a curl command, run under a hard
		deadline, and rendered as a numbered Markdown section containing the
		command, the response headers and the syntax-tagged body.`),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if !exitErr.reported {
				fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.err)
			}
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitUsageError)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flags.config, "config", "", "Path to config file (default: .restmd.yaml in the current directory)")
	f.StringVar(&flags.envFile, "env-file", "", "Path to .env file with variables for {{name}} references")
	f.IntVar(&flags.timeout, "timeout", 0, "Per-request deadline in seconds")
	f.StringVar(&flags.layout, "layout", "", "Output layout: vsplit, v, vertical, hsplit, h or horizontal")
	f.BoolVar(&flags.noHeaders, "no-headers", false, "Do not capture or render response headers")
	f.StringVar(&flags.shell, "shell", "", "Shell used to run commands")
	f.StringVar(&flags.translator, "translator", "", "\"curl\" or an external converter command")
	f.BoolVarP(&flags.parallel, "parallel", "p", false, "Run the requests of a batch in parallel")
	f.IntVar(&flags.concurrency, "concurrency", 0, "Number of concurrent requests when running in parallel")
	f.Float64Var(&flags.rate, "rate", 0, "Maximum process spawns per second (0 for unlimited)")
	f.BoolVar(&flags.pretty, "pretty", false, "Re-indent JSON response bodies")
	f.BoolVarP(&flags.insecure, "insecure", "k", false, "Let curl skip TLS certificate verification")
	f.BoolVarP(&flags.location, "location", "L", false, "Let curl follow redirects")
	f.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
