package processing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/systemstart/steptick/pkg/api"
	"github.com/systemstart/steptick/pkg/pipeline"
	"github.com/systemstart/steptick/pkg/report"
	"github.com/systemstart/steptick/pkg/tick"
	"github.com/systemstart/steptick/pkg/timesource"
)

const farmManifest = `
context:
  farm: north
steps:
  - id: sim.weather
    type: counter
    role: authoritative
    counter:
      failOnTicks: [3]
  - id: sim.soil
    type: scripted
    role: authoritative
    scripted:
      rules:
        - every: 2
          kind: skipped
          reasonCode: DOMAIN.Soil.Saturated
    gate:
      denyEvery: 4
      reasonCode: STEP.GATE.NotReady
  - id: sim.debug
    type: counter
    counter: {}
  - id: sim.proof
    type: counter
    role: proof
    counter: {}
`

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, api.ManifestFileName), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func quietScheduler(host tick.Host) *tick.Scheduler {
	return tick.New(host, tick.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestLoadHost_DiscoverSteps(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, farmManifest)

	host, err := LoadHost(root, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.Manifests()) != 1 {
		t.Fatalf("expected 1 manifest, got %d", len(host.Manifests()))
	}

	first, err := host.DiscoverSteps()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(first))
	}
	second, _ := host.DiscoverSteps()
	if first[0] == second[0] {
		t.Fatal("expected fresh step instances on each discovery")
	}
}

func TestLoadHost_InvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "steps: []\n")

	_, err := LoadHost(root, -1)
	if err == nil || !strings.Contains(err.Error(), "discovering manifests") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestManifestHost_BadStep(t *testing.T) {
	host := NewManifestHost([]*api.Manifest{{
		FilePath: "/x/.tick.yaml",
		Steps:    []api.StepConfig{{ID: "a", Type: "nope"}},
	}})
	_, err := host.DiscoverSteps()
	if err == nil || !strings.Contains(err.Error(), `creating step "a" from /x/.tick.yaml`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_Integration(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, farmManifest)
	host, err := LoadHost(root, -1)
	if err != nil {
		t.Fatal(err)
	}

	s := quietScheduler(host)
	clock := timesource.NewClock(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	s.BindTimeDeltaSource(clock)

	summary := &report.Summary{}
	r, err := report.NewRenderer("{{ .Tick }}:{{ range .Records }}{{ .StepID }}={{ .Outcome }},{{ end }}\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	res, err := Run(context.Background(), s, RunConfig{
		Frames:        4,
		FrameDuration: 100 * time.Millisecond,
		Clock:         clock,
		Observers:     []report.Observer{summary, report.NewSnapshotReport(r, &out)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Frames != 4 || res.Ticks != 4 || res.FailedTicks != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"1:sim.soil=Success,sim.weather=Success,",
		"2:sim.soil=Skipped(DOMAIN.Soil.Saturated),sim.weather=Success,",
		"3:sim.soil=Success,sim.weather=Failed(",
		"4:sim.soil=Denied(STEP.GATE.NotReady),sim.weather=Success,",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d report lines, got %d:\n%s", len(want), len(lines), out.String())
	}
	for i := range want {
		if !strings.HasPrefix(lines[i], want[i]) {
			t.Errorf("line %d: got %q, want prefix %q", i, lines[i], want[i])
		}
	}

	wantCounts := report.Counts{Success: 5, Skipped: 1, Denied: 1, Failed: 1}
	if summary.Counts != wantCounts {
		t.Fatalf("got %+v, want %+v", summary.Counts, wantCounts)
	}
	if !clock.UtcNow().Equal(time.Date(2026, 4, 1, 0, 0, 0, int(400*time.Millisecond), time.UTC)) {
		t.Fatalf("unexpected clock time %v", clock.UtcNow())
	}
}

func TestRun_PausedClockDoesNotTick(t *testing.T) {
	s := quietScheduler(NewManifestHost([]*api.Manifest{{
		Steps: []api.StepConfig{{ID: "a", Type: api.StepTypeCounter, Counter: &api.CounterConfig{}}},
	}}))
	clock := timesource.NewClock(time.Now())
	clock.SetSpeed(timesource.SpeedPaused)
	s.BindTimeDeltaSource(clock)

	summary := &report.Summary{}
	res, err := Run(context.Background(), s, RunConfig{
		Frames:        3,
		FrameDuration: time.Second,
		Clock:         clock,
		Observers:     []report.Observer{summary},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ticks != 0 || summary.Ticks != 0 || s.TickIndex() != 0 {
		t.Fatalf("expected no ticks, got %+v", res)
	}
}

func TestRun_DuplicateAcrossManifests(t *testing.T) {
	root := t.TempDir()
	one := "steps:\n  - id: sim.dup\n    type: counter\n    counter: {}\n"
	writeManifest(t, filepath.Join(root, "a"), one)
	writeManifest(t, filepath.Join(root, "b"), one)

	host, err := LoadHost(root, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := quietScheduler(host)
	s.BindTimeDeltaSource(timesource.Fixed(0.1))

	res, err := Run(context.Background(), s, RunConfig{Frames: 3})
	if !errors.Is(err, pipeline.ErrContractViolated) {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if res.Frames != 1 || res.Ticks != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRun_Cancelled(t *testing.T) {
	s := quietScheduler(nil)
	s.BindTimeDeltaSource(timesource.Fixed(0.1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, s, RunConfig{Frames: 5})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if res.Frames != 0 {
		t.Fatalf("expected no frames, got %d", res.Frames)
	}
}

type failingObserver struct{}

func (failingObserver) Observe(*tick.Snapshot) error { return errors.New("disk full") }

func TestRun_ObserverError(t *testing.T) {
	s := quietScheduler(tick.StaticHost(nil))
	s.BindTimeDeltaSource(timesource.Fixed(0.1))

	_, err := Run(context.Background(), s, RunConfig{Frames: 2, Observers: []report.Observer{failingObserver{}}})
	if err == nil || !strings.Contains(err.Error(), "observing snapshot: disk full") {
		t.Fatalf("unexpected error: %v", err)
	}
}
