package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/restmd/packages/core/config"
	"github.com/abdul-hamid-achik/restmd/packages/core/env"
	"github.com/abdul-hamid-achik/restmd/packages/core/runner"
	"github.com/abdul-hamid-achik/restmd/packages/core/session"
	"github.com/abdul-hamid-achik/restmd/packages/core/state"
	"github.com/abdul-hamid-achik/restmd/packages/host"
	"github.com/abdul-hamid-achik/restmd/packages/logging"
	"github.com/abdul-hamid-achik/restmd/packages/translate"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config      string
	envFile     string
	timeout     int
	layout      string
	noHeaders   bool
	shell       string
	translator  string
	parallel    bool
	concurrency int
	rate        float64
	pretty      bool
	insecure    bool
	location    bool
	noColor     bool
	logLevel    string
	logFormat   string
}

var flags globalFlags

// loadConfig resolves defaults, config file and environment, then applies
// the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	overrides := &config.Config{}
	if f.Changed("env-file") {
		overrides.EnvFile = flags.envFile
	}
	if f.Changed("timeout") {
		if flags.timeout <= 0 {
			return nil, fmt.Errorf("--timeout must be a positive number of seconds")
		}
		overrides.Timeout = flags.timeout
	}
	if f.Changed("layout") {
		overrides.Layout = flags.layout
	}
	if f.Changed("no-headers") {
		overrides.IncludeHeaders = config.BoolPtr(!flags.noHeaders)
	}
	if f.Changed("shell") {
		overrides.Shell = flags.shell
	}
	if f.Changed("translator") {
		overrides.Translator = flags.translator
	}
	if f.Changed("parallel") {
		overrides.Parallel = config.BoolPtr(flags.parallel)
	}
	if f.Changed("concurrency") {
		overrides.Concurrency = flags.concurrency
	}
	if f.Changed("rate") {
		overrides.Rate = flags.rate
	}
	if f.Changed("pretty") {
		overrides.PrettyJSON = config.BoolPtr(flags.pretty)
	}
	if f.Changed("insecure") {
		overrides.Curl.Insecure = config.BoolPtr(flags.insecure)
	}
	if f.Changed("location") {
		overrides.Curl.FollowRedirects = config.BoolPtr(flags.location)
	}
	if f.Changed("no-color") {
		overrides.NoColor = config.BoolPtr(flags.noColor)
	}
	if f.Changed("log-level") {
		overrides.LogLevel = flags.logLevel
	}
	if f.Changed("log-format") {
		overrides.LogFormat = flags.logFormat
	}

	cfg = cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(cfg.LogLevel, cfg.LogFormat, w)
}

// newTranslator builds the configured translator. The external converter
// follows the session timeout held in store.
func newTranslator(cfg *config.Config, processes *runner.ProcessRunner, store *state.Store) runner.Translator {
	if cfg.Translator == "" || cfg.Translator == config.TranslatorCurl {
		return translate.NewCurl(
			translate.WithBinary(cfg.Curl.Binary),
			translate.WithFollowRedirects(cfg.Curl.GetFollowRedirects()),
			translate.WithInsecure(cfg.Curl.GetInsecure()),
			translate.WithExtraArgs(cfg.Curl.ExtraArgs...),
		)
	}
	return translate.NewExec(cfg.Translator,
		translate.WithRunner(processes),
		translate.WithTimeout(cfg.TimeoutDuration()),
		translate.WithTimeoutFunc(func() time.Duration { return store.Load().Timeout() }),
	)
}

// newSession wires config into a runner and a session bound to editor.
func newSession(cfg *config.Config, editor host.Editor, logger *slog.Logger) (*session.Session, error) {
	initial, err := cfg.InitialState()
	if err != nil {
		return nil, err
	}

	var vars env.Bindings
	if cfg.EnvFile != "" {
		vars, err = env.LoadDotEnv(cfg.EnvFile)
		if err != nil {
			return nil, err
		}
	}

	processes := runner.NewProcessRunner(
		runner.WithShell(cfg.Shell),
		runner.WithDir(cfg.WorkDir),
		runner.WithEnv(vars.Environ()...),
		runner.WithProcessLogger(logging.Component(logger, "process")),
	)
	store := state.NewStore(initial)
	r := runner.NewRunner(newTranslator(cfg, processes, store), store, &runner.Config{
		Parallel:    cfg.GetParallel(),
		Concurrency: cfg.Concurrency,
		Rate:        cfg.Rate,
		PrettyJSON:  cfg.GetPrettyJSON(),
	},
		runner.WithExecutor(processes),
		runner.WithLogger(logging.Component(logger, "runner")),
	)

	return session.New(editor, r,
		session.WithVariables(vars),
		session.WithLogger(logging.Component(logger, "session")),
	), nil
}
