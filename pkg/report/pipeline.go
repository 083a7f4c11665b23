package report

import (
	"fmt"
	"io"

	"github.com/systemstart/steptick/pkg/pipeline"
	"github.com/systemstart/steptick/pkg/step"
)

// WritePipeline lists the ordered steps of p, one line per step.
func WritePipeline(w io.Writer, p *pipeline.Pipeline) error {
	if _, err := fmt.Fprintf(w, "[Pipeline] steps=%d\n", p.Len()); err != nil {
		return err
	}
	for i := range p.Len() {
		s := p.At(i)
		c := step.Resolve(s)
		if _, err := fmt.Fprintf(w, "  %2d %s type=%s role=%s\n", i, s.ID(), step.TypeName(s), c.Role); err != nil {
			return err
		}
	}
	return nil
}
