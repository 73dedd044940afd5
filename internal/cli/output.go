package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// OutputFormatter writes command results in the configured format.
type OutputFormatter struct {
	Format string
	Writer io.Writer

	mu sync.Mutex
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Print writes v as json or yaml, or calls text for the text format.
func (f *OutputFormatter) Print(v any, text func(w io.Writer) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.Format {
	case "json":
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = f.Writer.Write(data)
		return err
	default:
		return text(f.Writer)
	}
}

// Line writes v as one record of a stream: a json line, a yaml document,
// or whatever text writes.
func (f *OutputFormatter) Line(v any, text func(w io.Writer) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.Format {
	case "json":
		return json.NewEncoder(f.Writer).Encode(v)
	case "yaml":
		data, err := toYAML(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(f.Writer, "---\n%s", data)
		return err
	default:
		return text(f.Writer)
	}
}

// toYAML renders v through its json form so that yaml keys match the json
// field names.
func toYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("convert to yaml: %w", err)
	}
	return yaml.Marshal(generic)
}
