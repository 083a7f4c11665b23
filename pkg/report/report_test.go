package report

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/systemstart/steptick/pkg/outcome"
	"github.com/systemstart/steptick/pkg/pipeline"
	"github.com/systemstart/steptick/pkg/step"
	"github.com/systemstart/steptick/pkg/tick"
)

type namedStep string

func (s namedStep) ID() string                { return string(s) }
func (s namedStep) Execute(step.Context) error { return nil }

func snapshot(idx int64, outcomes ...outcome.Outcome) *tick.Snapshot {
	recs := make([]tick.Record, len(outcomes))
	for i, o := range outcomes {
		recs[i] = tick.Record{Step: namedStep(string(rune('a' + i))), Outcome: o}
	}
	return tick.NewSnapshot(idx, 0.02, recs)
}

func TestRenderer_DefaultTemplate(t *testing.T) {
	r, err := NewRenderer("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	snap := snapshot(3, outcome.Success(), outcome.Denied("STEP.GATE.NotReady", ""), outcome.Failed(errors.New("x")))
	if err := r.Render(&buf, snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"[TickExecSnap] tick=3 dt=0.0200 steps=3 halted\n",
		"   0 a Success\n",
		"   1 b Denied(STEP.GATE.NotReady)\n",
		"   2 c Failed(",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRenderer_CustomTemplateWithContext(t *testing.T) {
	text := `{{ .Context.farm | upper }}:{{ .Tick }}{{ range .Records }} {{ .StepID }}={{ .Kind | lower }}{{ end }}`
	r, err := NewRenderer(text, map[string]any{"farm": "north"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, snapshot(9, outcome.Success(), outcome.Skipped("DOMAIN.Soil.Dry", ""))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "NORTH:9 a=success b=skipped" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderer_RecordFields(t *testing.T) {
	text := `{{ range .Records }}{{ .ReasonCode }}|{{ .ReasonDetail }}|{{ .ErrorType }}|{{ .ErrorMessage }}|{{ .StepType }}{{ end }}`
	r, err := NewRenderer(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, snapshot(1, outcome.Skipped("STEP.Idle", "queue_empty"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "STEP.Idle|queue_empty|||github.com/systemstart/steptick/pkg/report.namedStep"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderer_ParseError(t *testing.T) {
	_, err := NewRenderer("{{ .Tick ", nil)
	if err == nil || !strings.Contains(err.Error(), "parsing report template") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRenderer_ExecError(t *testing.T) {
	r, err := NewRenderer(`{{ fail "nope" }}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = r.Render(&bytes.Buffer{}, snapshot(1))
	if err == nil || !strings.Contains(err.Error(), "executing report template") {
		t.Fatalf("expected exec error, got %v", err)
	}
}

func TestSnapshotReport_OncePerTick(t *testing.T) {
	r, err := NewRenderer("{{ .Tick }};", nil)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	rep := NewSnapshotReport(r, &buf)

	first := snapshot(1, outcome.Success())
	second := snapshot(2, outcome.Success())
	for _, s := range []*tick.Snapshot{nil, first, first, nil, second, second, first} {
		if err := rep.Observe(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := buf.String(); got != "1;2;" {
		t.Fatalf("got %q", got)
	}
}

func TestSummary(t *testing.T) {
	var s Summary
	observe := func(snap *tick.Snapshot) {
		if err := s.Observe(snap); err != nil {
			t.Fatal(err)
		}
	}
	one := snapshot(1, outcome.Success(), outcome.Skipped("STEP.A", ""), outcome.Denied("STEP.B", ""))
	two := snapshot(2, outcome.Success(), outcome.Failed(errors.New("x")))
	observe(one)
	observe(one)
	observe(two)
	observe(nil)

	want := Counts{Success: 2, Skipped: 1, Denied: 1, Failed: 1}
	if s.Counts != want {
		t.Fatalf("got %+v, want %+v", s.Counts, want)
	}
	if s.Ticks != 2 || s.Halted != 1 {
		t.Fatalf("got ticks=%d halted=%d", s.Ticks, s.Halted)
	}
	if got := s.String(); got != "ticks=2 halted=1 success=2 skipped=1 denied=1 failed=1" {
		t.Fatalf("got %q", got)
	}
	if s.Counts.Total() != 5 {
		t.Fatalf("total = %d", s.Counts.Total())
	}
}

func TestCount(t *testing.T) {
	c := Count(snapshot(1, outcome.Success(), outcome.Outcome{}, outcome.Skipped("STEP.A", "")))
	if c != (Counts{Success: 1, Skipped: 1}) {
		t.Fatalf("got %+v", c)
	}
	if Count(nil) != (Counts{}) {
		t.Fatal("expected zero counts for nil snapshot")
	}
}

func TestGovernanceProbe(t *testing.T) {
	var buf bytes.Buffer
	probe := NewGovernanceProbe(slog.New(slog.NewTextHandler(&buf, nil)))

	bad := snapshot(1, outcome.Success(), outcome.Skipped("", ""), outcome.Denied("no-dot", ""))
	for range 3 {
		if err := probe.Observe(bad); err != nil {
			t.Fatal(err)
		}
	}
	if err := probe.Observe(snapshot(2, outcome.Success())); err != nil {
		t.Fatal(err)
	}

	if probe.Violations() != 2 {
		t.Fatalf("expected 2 violations, got %d", probe.Violations())
	}
	out := buf.String()
	if n := strings.Count(out, "governance violation"); n != 2 {
		t.Fatalf("expected 2 log lines, got %d:\n%s", n, out)
	}
	for _, want := range []string{"violation=SkippedMissingReasonCode", "violation=ReasonCodeInvalid", "component=governance-probe"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log:\n%s", want, out)
		}
	}
}

func TestWritePipeline(t *testing.T) {
	p := pipeline.MustNew([]step.Step{step.Authoritative(namedStep("a")), namedStep("b")}, pipeline.Lexicographic{})

	var buf bytes.Buffer
	if err := WritePipeline(&buf, p); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[Pipeline] steps=2\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "   0 a type=") || !strings.Contains(out, "role=authoritative") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
	if !strings.Contains(out, "   1 b type=github.com/systemstart/steptick/pkg/report.namedStep role=plain") {
		t.Fatalf("unexpected listing:\n%s", out)
	}
}
