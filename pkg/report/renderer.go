package report

import (
	"fmt"
	"io"
	"maps"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/systemstart/steptick/pkg/step"
	"github.com/systemstart/steptick/pkg/tick"
)

// DefaultTemplate is used when no template is configured.
const DefaultTemplate = `[TickExecSnap] tick={{ .Tick }} dt={{ printf "%.4f" .Delta }} steps={{ .Steps }}{{ if .Halted }} halted{{ end }}
{{- range .Records }}
  {{ printf "%2d" .Index }} {{ .StepID }} {{ .Outcome }}
{{- end }}
`

// View is the data a report template is executed with.
type View struct {
	Tick    int64
	Delta   float64
	Steps   int
	Halted  bool
	Records []RecordView
	// Context holds the user supplied context values.
	Context map[string]any
}

// RecordView describes one step record.
type RecordView struct {
	Index        int
	StepID       string
	StepType     string
	Kind         string
	Outcome      string
	ReasonCode   string
	ReasonDetail string
	ErrorType    string
	ErrorMessage string
}

// Renderer executes a text/template with sprig functions against snapshots.
type Renderer struct {
	tmpl    *template.Template
	context map[string]any
}

// NewRenderer parses text, falling back to DefaultTemplate when empty.
func NewRenderer(text string, context map[string]any) (*Renderer, error) {
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("snapshot").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing report template: %w", err)
	}
	return &Renderer{tmpl: tmpl, context: maps.Clone(context)}, nil
}

// Render writes the report for snap.
func (r *Renderer) Render(w io.Writer, snap *tick.Snapshot) error {
	if err := r.tmpl.Execute(w, r.view(snap)); err != nil {
		return fmt.Errorf("executing report template: %w", err)
	}
	return nil
}

func (r *Renderer) view(snap *tick.Snapshot) View {
	v := View{
		Tick:    snap.TickIndex(),
		Delta:   snap.DeltaSeconds(),
		Steps:   snap.Len(),
		Halted:  snap.Halted(),
		Records: make([]RecordView, 0, snap.Len()),
		Context: r.context,
	}
	if v.Context == nil {
		v.Context = map[string]any{}
	}
	for i, rec := range snap.Records() {
		o := rec.Outcome
		v.Records = append(v.Records, RecordView{
			Index:        i,
			StepID:       rec.StepID(),
			StepType:     step.TypeName(rec.Step),
			Kind:         o.Kind.String(),
			Outcome:      o.String(),
			ReasonCode:   o.ReasonCode,
			ReasonDetail: o.ReasonDetail,
			ErrorType:    o.ErrorType,
			ErrorMessage: o.ErrorMessage,
		})
	}
	return v
}

// SnapshotReport renders every new snapshot to a writer.
type SnapshotReport struct {
	renderer *Renderer
	out      io.Writer
	seen     seen
}

// NewSnapshotReport creates a snapshot observer.
func NewSnapshotReport(r *Renderer, out io.Writer) *SnapshotReport {
	return &SnapshotReport{renderer: r, out: out}
}

// Observe renders snap unless its tick was already rendered.
func (s *SnapshotReport) Observe(snap *tick.Snapshot) error {
	if !s.seen.fresh(snap) {
		return nil
	}
	return s.renderer.Render(s.out, snap)
}
