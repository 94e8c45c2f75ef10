package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/abdul-hamid-achik/restmd/packages/core/session"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	"github.com/abdul-hamid-achik/restmd/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute requests from a .http file",
	Long: heredoc.Doc(`
		Execute the requests of a .http file and print the Markdown result.

		Without --line every ### block that holds a request is executed as one
		batch. With --line only the blocks containing those lines run. --buffer
		sends the whole file as a single request.

		If any request in a batch fails, nothing is printed for the batch and
		the process exits non-zero.

		Examples:
		  restmd run api.http
		  restmd run api.http --line 12
		  restmd run api.http --out results.md --timeout 5
		  restmd run api.http --env-file .env --pretty
		  restmd run api.http --json
		  restmd run api.http --watch
	`),
	Args: cobra.ExactArgs(1),
	RunE: runCommand,
}

var (
	runLines   []int
	runBuffer  bool
	runOut     string
	runJSON    bool
	runWatch   bool
	runVerbose bool
	runQuiet   bool
)

func init() {
	runCmd.Flags().IntSliceVarP(&runLines, "line", "l", nil, "Execute only the request blocks containing these 1-based lines")
	runCmd.Flags().BoolVar(&runBuffer, "buffer", false, "Send the whole file as a single request")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Append Markdown to this file instead of printing it")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print a JSON report on stdout instead of Markdown")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run when the file changes")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Show commands in the status report")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Suppress the status report")
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = runOut
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = filepath.Dir(args[0])
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	var markdown io.Writer = cmd.OutOrStdout()
	if runJSON {
		markdown = io.Discard
	}
	highlight := !cfg.GetNoColor() && !color.NoColor && cmd.OutOrStdout() == os.Stdout

	path := args[0]
	editor := host.NewFile(path,
		host.WithLines(runLines...),
		host.WithOutputFile(cfg.Output),
		host.WithWriter(markdown, highlight),
	)

	sess, err := newSession(cfg, editor, logger)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	console := output.NewConsoleFormatter(
		output.WithWriter(cmd.ErrOrStderr()),
		output.WithVerbose(runVerbose),
		output.WithNoColor(cfg.GetNoColor()),
	)
	jsonOut := output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout()))

	execute := func(ctx context.Context) session.Status {
		var status session.Status
		switch {
		case runBuffer:
			status = sess.ExecuteBuffer(ctx)
		case len(runLines) == 1:
			status = sess.ExecutePrimary(ctx)
		default:
			status = sess.ExecuteAll(ctx)
		}

		switch {
		case runJSON && status.Failed():
			_ = jsonOut.FormatError(status.Err)
		case runJSON:
			_ = jsonOut.FormatReport(status.Batch.Report(path))
		case runQuiet && !status.Failed():
		case status.Failed():
			console.FormatStatus(status.Message, true)
		default:
			console.FormatReport(status.Batch.Report(path))
			console.FormatStatus(status.Message, false)
		}
		return status
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := execute(ctx)
	if !runWatch {
		if status.Failed() {
			return &exitError{code: exitCodeFor(status.Err), err: status.Err, reported: true}
		}
		return nil
	}

	return watchFile(ctx, cmd.ErrOrStderr(), path, WatchDebounceDelay, func() {
		execute(ctx)
	})
}
