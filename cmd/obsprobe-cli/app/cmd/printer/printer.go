package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"sigs.k8s.io/yaml"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// TableFunc writes rows, header included, to a tabwriter.
type TableFunc func(w io.Writer)

// Print writes v in the requested format. table is used for FormatTable.
func Print(out io.Writer, format string, v interface{}, table TableFunc) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML:
		raw, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}

		_, err = out.Write(raw)

		return err
	case FormatTable, "":
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		table(w)

		return w.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func FormatAge(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "<unknown>"
	}

	d := time.Since(*t)

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// OrNone renders an empty column value.
func OrNone(s string) string {
	if s == "" {
		return "<none>"
	}

	return s
}
