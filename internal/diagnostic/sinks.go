package diagnostic

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Stream writes each diagnostic as one line to an output stream, typically
// standard error. Severities are colored when the stream supports it.
type Stream struct {
	Out io.Writer
}

// NewStream creates a stream sink writing to w. A nil w means os.Stderr.
func NewStream(w io.Writer) *Stream {
	if w == nil {
		w = os.Stderr
	}
	return &Stream{Out: w}
}

var severityColors = map[Severity]*color.Color{
	SeverityNote:    color.New(color.FgCyan),
	SeverityWarning: color.New(color.FgYellow),
	SeverityError:   color.New(color.FgRed, color.Bold),
}

func (s *Stream) Emit(d Diagnostic) error {
	line := d.String()
	if c, ok := severityColors[d.Severity]; ok && s.Out == os.Stderr {
		line = c.Sprint(line)
	}
	_, err := fmt.Fprintln(s.Out, line)
	return err
}

// File accumulates diagnostics in memory and writes them as a YAML document
// on Finalize. Emit is safe for concurrent use.
type File struct {
	Path string

	mu       sync.Mutex
	received []Diagnostic
}

// NewFile creates a file sink that writes to path on Finalize.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) Emit(d Diagnostic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, d)
	return nil
}

// diagnosticRecord is the serialized form of one diagnostic.
type diagnosticRecord struct {
	Severity string            `yaml:"severity"`
	Message  string            `yaml:"message"`
	Location *Location         `yaml:"location,omitempty"`
	Context  map[string]string `yaml:"context"`
}

// fileContents is the root document of the diagnostics file.
type fileContents struct {
	UniqueMessages []string           `yaml:"uniqueMessages"`
	Diagnostics    []diagnosticRecord `yaml:"diagnostics"`
}

// Finalize sorts the collected diagnostics, lists their deduplicated
// messages under uniqueMessages, and writes the YAML file. The diagnostics
// list keeps every emitted diagnostic, duplicates included. Calling it again
// with no intervening emits rewrites an identical file.
func (f *File) Finalize() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sorted := make([]Diagnostic, len(f.received))
	copy(sorted, f.received)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	var contents fileContents
	seen := map[string]bool{}
	for _, d := range sorted {
		if !seen[d.Message] {
			seen[d.Message] = true
			contents.UniqueMessages = append(contents.UniqueMessages, d.Message)
		}
		ctx := d.Context
		if ctx == nil {
			ctx = map[string]string{}
		}
		contents.Diagnostics = append(contents.Diagnostics, diagnosticRecord{
			Severity: d.Severity.String(),
			Message:  d.Message,
			Location: d.Location,
			Context:  ctx,
		})
	}
	sort.Strings(contents.UniqueMessages)

	data, err := yaml.Marshal(contents)
	if err != nil {
		return fmt.Errorf("marshal diagnostics file: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return fmt.Errorf("write diagnostics file %q: %w", f.Path, err)
	}
	return nil
}

// ErrorThrowing forwards every diagnostic to Upstream and raises
// error-severity diagnostics as a *Failure, halting the pipeline.
type ErrorThrowing struct {
	Upstream Collector
}

// NewErrorThrowing wraps upstream in an error-raising sink.
func NewErrorThrowing(upstream Collector) *ErrorThrowing {
	return &ErrorThrowing{Upstream: upstream}
}

func (e *ErrorThrowing) Emit(d Diagnostic) error {
	if err := e.Upstream.Emit(d); err != nil {
		return err
	}
	if d.Severity == SeverityError {
		return &Failure{Diagnostic: d}
	}
	return nil
}

// Recording keeps every diagnostic in memory. Used in tests.
type Recording struct {
	Received []Diagnostic
}

func (r *Recording) Emit(d Diagnostic) error {
	r.Received = append(r.Received, d)
	return nil
}
