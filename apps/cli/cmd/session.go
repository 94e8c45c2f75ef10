package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/abdul-hamid-achik/restmd/packages/core/session"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	"github.com/abdul-hamid-achik/restmd/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session [file]",
	Short: "Interactive prompt that keeps state between executions",
	Long: heredoc.Doc(`
		Start an interactive prompt. Timeout, layout, header setting and
		request numbering persist until the prompt exits.

		Commands:
		  open <file>        switch to another .http file
		  run [line...]      execute the blocks containing the lines (all blocks without lines)
		  buffer             execute the whole file as one request
		  timeout [seconds]  show or set the per-request deadline
		  layout [value]     show or set the layout (vsplit, v, vertical, hsplit, h, horizontal)
		  headers            toggle response headers
		  stats              show latency statistics
		  clear              clear the output
		  help               show this list
		  quit               leave the prompt
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: sessionCommand,
}

var sessionOut string

func init() {
	sessionCmd.Flags().StringVarP(&sessionOut, "out", "o", "", "Append Markdown to this file instead of printing it")
}

func sessionCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}
	if cmd.Flags().Changed("out") {
		cfg.Output = sessionOut
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	var path string
	if len(args) == 1 {
		path = args[0]
		if cfg.WorkDir == "" {
			cfg.WorkDir = filepath.Dir(path)
		}
	}
	highlight := !cfg.GetNoColor() && !color.NoColor && cmd.OutOrStdout() == os.Stdout
	editor := host.NewFile(path,
		host.WithOutputFile(cfg.Output),
		host.WithWriter(cmd.OutOrStdout(), highlight),
	)

	sess, err := newSession(cfg, editor, logger)
	if err != nil {
		return &exitError{code: ExitConfigError, err: err}
	}

	console := output.NewConsoleFormatter(
		output.WithWriter(cmd.ErrOrStderr()),
		output.WithNoColor(cfg.GetNoColor()),
	)
	console.FormatHeader(version)

	repl := &prompt{session: sess, editor: editor, console: console, help: cmd.Long}
	return repl.loop(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
}

// prompt reads commands line by line and dispatches them to a session.
type prompt struct {
	session *session.Session
	editor  *host.File
	console *output.ConsoleFormatter
	help    string
}

func (p *prompt) loop(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "restmd> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}

		status, ok := p.dispatch(ctx, fields[0], fields[1:])
		if !ok {
			fmt.Fprintf(out, "unknown command %q, type help\n", fields[0])
			continue
		}
		if status.Message != "" {
			p.console.FormatStatus(status.Message, status.Failed())
		}
	}
}

func (p *prompt) dispatch(ctx context.Context, name string, args []string) (session.Status, bool) {
	switch name {
	case "open":
		if len(args) != 1 {
			return session.Status{Message: "Error: usage: open <file>", Err: fmt.Errorf("usage: open <file>")}, true
		}
		p.editor.Open(args[0])
		return session.Status{Message: "Opened " + args[0]}, true

	case "run":
		lines := make([]int, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return session.Status{Message: fmt.Sprintf("Error: invalid line %q", a), Err: err}, true
			}
			lines = append(lines, n)
		}
		p.editor.Select(lines...)
		if len(lines) == 1 {
			return p.session.ExecutePrimary(ctx), true
		}
		return p.session.ExecuteAll(ctx), true

	case "buffer":
		return p.session.ExecuteBuffer(ctx), true

	case "timeout":
		if len(args) == 0 {
			return p.session.Timeout(), true
		}
		return p.session.SetTimeoutString(args[0]), true

	case "layout":
		if len(args) == 0 {
			return p.session.Layout(), true
		}
		return p.session.SetLayout(args[0]), true

	case "headers":
		return p.session.ToggleHeaders(), true

	case "stats":
		return p.session.Stats(), true

	case "clear":
		return p.session.ClearOutput(), true

	case "help":
		return session.Status{Message: p.help}, true
	}
	return session.Status{}, false
}
