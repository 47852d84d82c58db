// internal/status/encode.go
package status

import (
	"fmt"
	"io"
	"strings"
)

// Format renders s as the status block, in fixed order.
// No IO beyond w. No side effects.
func Format(w io.Writer, s Snapshot) error {
	var b strings.Builder

	inLabels := [2]string{LabelInput0, LabelInput1}
	for i, in := range s.Inputs {
		if !in.Present {
			continue
		}
		fmt.Fprintf(&b, "%s%dx%d (@ %3d.%02d MHz)%s", inLabels[i], in.HRes, in.VRes,
			in.FreqHz/hzPerMHz, (in.FreqHz/hzPerHundredth)%100, EOL)
	}

	outLabels := [2]string{LabelOutput0, LabelOutput1}
	for i, out := range s.Outputs {
		if !out.Present {
			continue
		}
		b.WriteString(outLabels[i])
		if out.Enabled {
			fmt.Fprintf(&b, "%dx%d@%dHz from %s (underflows: %d)",
				out.HActive, out.VActive, out.Refresh, out.Source, out.Underflows)
		} else {
			b.WriteString(Off)
		}
		b.WriteString(EOL)
	}

	if e := s.Encoder; e.Present {
		b.WriteString(LabelEncoder)
		if e.Enabled {
			fmt.Fprintf(&b, "%dx%d @ %dfps from %s (q: %d)",
				e.HActive, e.VActive, e.FPS, e.Source, e.Quality)
		} else {
			b.WriteString(Off)
		}
		b.WriteString(EOL)
	}

	if s.DDR.Present {
		b.WriteString(LabelDDR)
		formatDDR(&b, s.DDR)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDDR renders the bandwidth line alone.
func FormatDDR(w io.Writer, d DDR) error {
	var b strings.Builder
	formatDDR(&b, d)
	_, err := io.WriteString(w, b.String())
	return err
}

func formatDDR(b *strings.Builder, d DDR) {
	fmt.Fprintf(b, "read:%5dMbps  write:%5dMbps  all:%5dMbps%s",
		d.ReadMbps, d.WriteMbps, d.ReadMbps+d.WriteMbps, EOL)
}
