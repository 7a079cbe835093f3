package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mergington/activityboard/board"
	"github.com/mergington/activityboard/buildinfo"
	"github.com/mergington/activityboard/clients/activityclient"
	"github.com/mergington/activityboard/config"
	"github.com/mergington/activityboard/logging"
	"github.com/mergington/activityboard/metrics"
)

const pushTimeout = 10 * time.Second

// errActionFailed is returned when the board ends in an error state. The
// reason has already been printed with the board.
var errActionFailed = errors.New("action failed")

type Args struct {
	ConfigPath  string
	UpstreamURL string
	ShowVersion bool
	Validate    bool
	Command     string
	Activity    string
	Email       string
}

func main() {
	args, err := parseArgs(os.Args[1:], os.Stderr)
	if err == nil {
		err = run(context.Background(), args, os.Stdout)
	}
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, errActionFailed):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args Args, stdout io.Writer) error {
	if args.ShowVersion {
		showVersion(stdout)
		return nil
	}

	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if args.UpstreamURL != "" {
		os.Setenv(config.EnvUpstreamURL, args.UpstreamURL)
	}

	cfg, err := config.LoadConfig(args.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if args.Validate {
		fmt.Fprintf(stdout, "Configuration validation successful: %s\n", args.ConfigPath)
		return nil
	}

	// Keep stdout for the board itself.
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	props := buildinfo.Get()
	logger.Debug("activityboard cli started",
		"build_time", props.BuildTime,
		"git_commit", props.GitCommit,
		"command", args.Command,
	)

	client, err := activityclient.New(cfg.Upstream.URL,
		activityclient.WithLogger(logger),
		activityclient.WithTimeout(cfg.Upstream.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create activities client: %w", err)
	}

	boardOpts := []board.Option{
		board.WithLogger(logger),
		board.WithMessageTimeout(cfg.Board.MessageTimeout),
	}

	var registry *metrics.PushRegistry
	if cfg.Monitoring.VictoriaMetricsURL != "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		registry = metrics.NewPushRegistry(metrics.PushConfig{
			URL:      cfg.Monitoring.VictoriaMetricsURL,
			Prefix:   cfg.Monitoring.MetricsPrefix,
			Job:      cfg.Monitoring.JobName,
			Instance: hostname,
		})
		boardMetrics, err := board.NewMetrics(registry)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		boardOpts = append(boardOpts, board.WithMetrics(boardMetrics))
	}

	session := board.New(client, boardOpts...).NewSession()
	execute(ctx, session, args)

	if registry != nil {
		pushMetrics(ctx, registry, logger)
	}

	v := session.View()
	if err := board.RenderText(stdout, v); err != nil {
		return err
	}
	if v.LoadFailed || (!v.Message.Hidden && v.Message.Class == board.ClassError) {
		return errActionFailed
	}
	return nil
}

// execute loads the board and applies the requested action to it.
func execute(ctx context.Context, s *board.Session, args Args) {
	s.LoadActivities(ctx)

	switch args.Command {
	case "signup":
		s.Signup(ctx, args.Activity, args.Email)
	case "unregister":
		s.Unregister(ctx, args.Activity, args.Email)
	}
}

func pushMetrics(ctx context.Context, registry *metrics.PushRegistry, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()

	if err := registry.Push(ctx); err != nil {
		logger.Warn("failed to push metrics", "error", err)
	}
}

func showVersion(w io.Writer) {
	props := buildinfo.Get()
	fmt.Fprintf(w, "activityboard\n")
	fmt.Fprintf(w, "Built: %s\n", props.BuildTime)
	fmt.Fprintf(w, "Commit: %s\n", props.GitCommit)
	if props.Modified {
		fmt.Fprintf(w, "Modified: true\n")
	}
}

func parseArgs(argv []string, stderr io.Writer) (Args, error) {
	fset := flag.NewFlagSet("activityboard", flag.ContinueOnError)
	fset.SetOutput(stderr)

	configPath := fset.String("config", "", "Path to config file")
	configPathShort := fset.String("c", "", "Path to config file (shorthand)")
	upstream := fset.String("upstream", "", "Activities server URL, overrides upstream.url")
	showVersion := fset.Bool("version", false, "Show version information")
	versionShort := fset.Bool("v", false, "Show version information (shorthand)")
	validate := fset.Bool("validate", false, "Validate configuration and exit")

	fset.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <command> [command options]\n", fset.Name())
		fmt.Fprintf(stderr, "\nMergington High School extracurricular activities\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  list                                   Show all activities\n")
		fmt.Fprintf(stderr, "  signup -activity NAME -email EMAIL     Sign a student up\n")
		fmt.Fprintf(stderr, "  unregister -activity NAME -email EMAIL Remove a student\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fset.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s --upstream http://localhost:8000 list\n", fset.Name())
		fmt.Fprintf(stderr, "  %s -c config.yaml signup -activity \"Chess Club\" -email emma@mergington.edu\n", fset.Name())
	}

	if err := fset.Parse(argv); err != nil {
		return Args{}, err
	}

	args := Args{
		ConfigPath:  *configPath,
		UpstreamURL: *upstream,
		ShowVersion: *showVersion || *versionShort,
		Validate:    *validate,
	}
	if args.ConfigPath == "" {
		args.ConfigPath = *configPathShort
	}
	if args.ShowVersion || args.Validate {
		return args, nil
	}

	rest := fset.Args()
	if len(rest) == 0 {
		fset.Usage()
		return Args{}, errors.New("a command is required")
	}
	args.Command = rest[0]

	switch args.Command {
	case "list":
		if len(rest) > 1 {
			return Args{}, fmt.Errorf("list takes no arguments, got %q", rest[1:])
		}
	case "signup", "unregister":
		cmd := flag.NewFlagSet(args.Command, flag.ContinueOnError)
		cmd.SetOutput(stderr)
		activity := cmd.String("activity", "", "Activity name")
		email := cmd.String("email", "", "Student email")
		if err := cmd.Parse(rest[1:]); err != nil {
			return Args{}, err
		}
		if *activity == "" || *email == "" {
			return Args{}, fmt.Errorf("%s requires -activity and -email", args.Command)
		}
		args.Activity = *activity
		args.Email = *email
	default:
		fset.Usage()
		return Args{}, fmt.Errorf("unknown command %q", args.Command)
	}

	return args, nil
}
