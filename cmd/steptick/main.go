package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/logging"
	"github.com/systemstart/steptick/pkg/processing"
	"github.com/systemstart/steptick/pkg/report"
	"github.com/systemstart/steptick/pkg/telemetry"
	"github.com/systemstart/steptick/pkg/tick"
	"github.com/systemstart/steptick/pkg/timesource"
)

var version = "dev"

const (
	_ = iota
	exitDotenvError
	exitLoadSettingsFailed
	exitInvalidSettings
	exitManifestDirectoryNotSpecified
	exitManifestDirectoryCheckFailed
	exitManifestDirectoryNotADirectory
	exitLoadContextFailed
	exitLoadManifestsFailed
	exitTelemetryFailed
	exitReportTemplateFailed
	exitPipelineInvalid
	exitRunFailed
	exitFailedOutcomes
)

var (
	manifestDirectory string
	settingsFile      string
	contextFile       string
	frames            int
	deltaSeconds      float64
	speed             string
	maxDepth          int
	loggingType       string
	logLevel          string
	strictGovernance  bool
	failOnFailed      bool
	showVersion       bool
)

func init() {
	flag.StringVar(
		&manifestDirectory,
		"manifests",
		"",
		"directory searched for .tick.yaml step manifests")
	flag.StringVar(
		&settingsFile,
		"settings",
		"",
		"settings YAML file")
	flag.StringVar(
		&contextFile,
		"context-file",
		"",
		"global context YAML file passed to report templates")
	flag.IntVar(
		&frames,
		"frames",
		60,
		"number of frames to drive")
	flag.Float64Var(
		&deltaSeconds,
		"delta",
		0,
		"fixed delta seconds per tick (0 = scaled frame clock)")
	flag.StringVar(
		&speed,
		"speed",
		"normal",
		"clock speed: paused, normal, fast or ultra")
	flag.IntVar(
		&maxDepth,
		"max-depth",
		-1,
		"max directory recursion depth (-1 = unlimited, 0 = root only)")
	flag.StringVar(
		&loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	flag.StringVar(
		&logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	flag.BoolVar(
		&strictGovernance,
		"strict-governance",
		false,
		"log outcome governance violations as errors")
	flag.BoolVar(
		&failOnFailed,
		"fail-on-failed",
		false,
		"exit non-zero when any tick recorded a Failed outcome")
	flag.BoolVar(
		&showVersion,
		"version",
		false,
		"print version and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	_ = logging.Initialize(loggingType, logLevel)

	includeEnv()
	settings := loadSettings()
	if err := logging.Initialize(settings.Logging.Type, settings.Logging.Level); err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(exitInvalidSettings)
	}

	checkManifestDirectory()
	globalContext := loadGlobalContext()

	host, err := processing.LoadHost(manifestDirectory, maxDepth)
	if err != nil {
		slog.Error("failed to load manifests", "directory", manifestDirectory, "error", err)
		os.Exit(exitLoadManifestsFailed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, settings, host, processing.ManifestContext(globalContext, host.Manifests()))
	stop()
	os.Exit(code)
}

func run(ctx context.Context, settings *api.Settings, host *processing.ManifestHost, reportContext map[string]any) int {
	metrics := telemetry.NewProvider()
	defer func() {
		if err := metrics.Shutdown(context.Background()); err != nil {
			slog.Warn("failed to shut down metrics", "error", err)
		}
	}()
	recorder, err := telemetry.New(metrics.Meter(), nil)
	if err != nil {
		slog.Error("failed to create telemetry recorder", "error", err)
		return exitTelemetryFailed
	}

	scheduler := tick.New(host, tick.Options{
		Logger:                       slog.Default(),
		Recorder:                     recorder,
		Governance:                   governanceMode(settings.Governance),
		DisableAuthoritativeFallback: settings.DisableAuthoritativeFallback,
		Filter:                       settings.Filter.Func(),
	})
	defer scheduler.Shutdown()

	cfg := processing.RunConfig{Frames: settings.Frames}
	bindTime(scheduler, settings.Time, &cfg)

	p, err := scheduler.Discover()
	if err != nil {
		slog.Error("step pipeline is invalid", "error", err)
		return exitPipelineInvalid
	}
	if err := report.WritePipeline(os.Stdout, p); err != nil {
		slog.Warn("failed to write pipeline report", "error", err)
	}

	summary := &report.Summary{}
	probe := report.NewGovernanceProbe(slog.Default())
	cfg.Observers = []report.Observer{summary, probe}
	if settings.Report.Enabled {
		renderer, err := report.NewRenderer(settings.Report.Template, reportContext)
		if err != nil {
			slog.Error("invalid report template", "error", err)
			return exitReportTemplateFailed
		}
		cfg.Observers = append(cfg.Observers, report.NewSnapshotReport(renderer, os.Stdout))
	}

	res, err := processing.Run(ctx, scheduler, cfg)
	if err != nil {
		slog.Error("run failed", "frames", res.Frames, "error", err)
		return exitRunFailed
	}

	logSummary(ctx, metrics, summary, probe)

	if failOnFailed && res.FailedTicks > 0 {
		slog.Error("ticks recorded failed outcomes", "failedTicks", res.FailedTicks)
		return exitFailedOutcomes
	}
	slog.Info("done")
	return 0
}

func bindTime(s *tick.Scheduler, t api.TimeSettings, cfg *processing.RunConfig) {
	if t.DeltaSeconds > 0 {
		s.BindTimeDeltaSource(timesource.Fixed(t.DeltaSeconds))
		slog.Info("using fixed delta", "deltaSeconds", t.DeltaSeconds)
		return
	}

	mode, _ := timesource.ParseSpeed(t.Speed)
	clock := timesource.NewClock(time.Now())
	clock.SetSpeed(mode)
	s.BindTimeDeltaSource(clock)
	cfg.Clock = clock
	cfg.FrameDuration = time.Duration(t.FrameSeconds * float64(time.Second))
	slog.Info("using frame clock", "speed", mode, "frameSeconds", t.FrameSeconds)
}

func governanceMode(g api.GovernanceSettings) tick.GovernanceMode {
	switch {
	case !g.Enabled:
		return tick.GovernanceOff
	case g.Strict:
		return tick.GovernanceStrict
	default:
		return tick.GovernanceWarn
	}
}

func logSummary(ctx context.Context, metrics *telemetry.Provider, summary *report.Summary, probe *report.GovernanceProbe) {
	slog.Info("outcome summary",
		"ticks", summary.Ticks,
		"halted", summary.Halted,
		"success", summary.Counts.Success,
		"skipped", summary.Counts.Skipped,
		"denied", summary.Counts.Denied,
		"failed", summary.Counts.Failed,
		"governanceViolations", probe.Violations())

	m, err := metrics.Summary(ctx)
	if err != nil {
		slog.Warn("failed to collect metrics", "error", err)
		return
	}
	for id, seconds := range m.StepSeconds {
		slog.Debug("step time", "step", id, "seconds", seconds)
	}
	slog.Info("metrics summary", "ticks", m.Ticks, "halted", m.Halted, "outcomes", m.Outcomes, "violations", m.Violations)
}

func loadSettings() *api.Settings {
	settings := api.DefaultSettings()
	if settingsFile != "" {
		loaded, err := api.LoadSettings(settingsFile)
		if err != nil {
			slog.Error("failed to load settings", "filename", settingsFile, "error", err)
			os.Exit(exitLoadSettingsFailed)
		}
		settings = *loaded
	}

	if err := api.ApplyEnv(&settings); err != nil {
		slog.Error("invalid environment settings", "error", err)
		os.Exit(exitInvalidSettings)
	}

	applyFlags(&settings)
	if err := settings.Validate(); err != nil {
		slog.Error("invalid settings", "error", err)
		os.Exit(exitInvalidSettings)
	}
	if _, err := timesource.ParseSpeed(settings.Time.Speed); err != nil {
		slog.Error("invalid settings", "error", err)
		os.Exit(exitInvalidSettings)
	}
	return &settings
}

// applyFlags overrides settings with flags given on the command line.
func applyFlags(s *api.Settings) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "frames":
			s.Frames = frames
		case "delta":
			s.Time.DeltaSeconds = deltaSeconds
		case "speed":
			s.Time.Speed = speed
		case "logging-type":
			s.Logging.Type = loggingType
		case "log-level":
			s.Logging.Level = logLevel
		case "strict-governance":
			s.Governance.Strict = strictGovernance
		}
	})
}

func loadGlobalContext() map[string]any {
	if contextFile == "" {
		return nil
	}

	ctx, err := processing.LoadContextFile(contextFile)
	if err != nil {
		slog.Error("failed to load context file", "filename", contextFile, "error", err)
		os.Exit(exitLoadContextFailed)
	}
	return ctx
}

func includeEnv() {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			os.Exit(exitDotenvError)
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
}

func checkManifestDirectory() {
	if manifestDirectory == "" {
		slog.Error("-manifests not set")
		os.Exit(exitManifestDirectoryNotSpecified)
	}

	st, err := os.Stat(manifestDirectory)
	if err != nil {
		slog.Error("failed to check manifest directory", "directory", manifestDirectory, "error", err)
		os.Exit(exitManifestDirectoryCheckFailed)
	}

	if !st.IsDir() {
		slog.Error("-manifests is not a directory", "directory", manifestDirectory)
		os.Exit(exitManifestDirectoryNotADirectory)
	}
}
