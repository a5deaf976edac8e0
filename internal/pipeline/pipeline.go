// Package pipeline drives the generation stages: parse, filter, validate,
// translate, and render, producing the output file set for one run.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/oaswift/oaswift/internal/config"
	"github.com/oaswift/oaswift/internal/diagnostic"
	"github.com/oaswift/oaswift/internal/docfilter"
	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/parser"
	"github.com/oaswift/oaswift/internal/refgraph"
	"github.com/oaswift/oaswift/internal/render"
	"github.com/oaswift/oaswift/internal/translate"
)

// OutputFile is one rendered file of the run's output set.
type OutputFile struct {
	Name     string
	Contents []byte
}

// TimingReport collects per-stage durations.
type TimingReport struct {
	Parse     time.Duration
	Filter    time.Duration
	Validate  time.Duration
	Analyze   time.Duration
	Translate time.Duration
	Render    time.Duration
	Total     time.Duration
}

// Print outputs the timing breakdown to stderr.
func (t *TimingReport) Print() {
	fmt.Fprintf(os.Stderr, "\n--- timing ---\n")
	fmt.Fprintf(os.Stderr, "  parse:      %s\n", t.Parse.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  filter:     %s\n", t.Filter.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  validate:   %s\n", t.Validate.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  analyze:    %s\n", t.Analyze.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  translate:  %s\n", t.Translate.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  render:     %s\n", t.Render.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  total:      %s\n", t.Total.Round(time.Millisecond))
}

// Run executes the whole pipeline over one document. The sink receives
// every diagnostic; error-severity diagnostics abort the run through the
// returned error. Output is deterministic: the same input and config
// produce byte-identical files.
func Run(input []byte, path string, cfg *config.Config, sink diagnostic.Collector) ([]OutputFile, *TimingReport, error) {
	timing := &TimingReport{}
	start := time.Now()

	stageStart := time.Now()
	doc, err := parser.Parse(input, path, sink)
	timing.Parse = time.Since(stageStart)
	if err != nil {
		return nil, timing, err
	}

	stageStart = time.Now()
	if cfg.Filter != nil {
		doc = docfilter.Apply(doc, *cfg.Filter)
	}
	timing.Filter = time.Since(stageStart)

	stageStart = time.Now()
	if err := parser.Validate(doc, sink); err != nil {
		return nil, timing, err
	}
	timing.Validate = time.Since(stageStart)

	stageStart = time.Now()
	graph := refgraph.Build(doc)
	analysis := refgraph.Analyze(graph, nil)
	timing.Analyze = time.Since(stageStart)

	stageStart = time.Now()
	translator := translate.New(doc, cfg, analysis, sink)
	types, err := translator.TranslateTypes()
	if err != nil {
		return nil, timing, err
	}

	var extraDecls []ir.Decl
	switch cfg.Mode {
	case config.ModeClient:
		extraDecls, err = translator.TranslateClient(types.OpsResult)
	case config.ModeServer:
		extraDecls, err = translator.TranslateServer(types.OpsResult)
	}
	if err != nil {
		return nil, timing, err
	}
	timing.Translate = time.Since(stageStart)

	stageStart = time.Now()
	var files []OutputFile
	if cfg.Mode == config.ModeTypes && cfg.Sharding != nil && cfg.Sharding.Enabled {
		files = renderSharded(cfg, types, graph, analysis)
	} else {
		files = []OutputFile{renderSingle(cfg, types, extraDecls)}
	}
	timing.Render = time.Since(stageStart)

	timing.Total = time.Since(start)
	return files, timing, nil
}

// renderSingle produces the one-file output: Types.swift, Client.swift, or
// Server.swift.
func renderSingle(cfg *config.Config, types *translate.TypesFile, extraDecls []ir.Decl) OutputFile {
	switch cfg.Mode {
	case config.ModeClient:
		return OutputFile{
			Name: "Client.swift",
			Contents: []byte(render.File(render.FileOptions{
				Imports: append(render.ClientServerImports, cfg.AdditionalImports...),
			}, func(e *render.Emitter) {
				for _, d := range extraDecls {
					render.RenderDecl(e, d)
					e.Blank()
				}
			})),
		}
	case config.ModeServer:
		return OutputFile{
			Name: "Server.swift",
			Contents: []byte(render.File(render.FileOptions{
				Imports: append(render.ClientServerImports, cfg.AdditionalImports...),
			}, func(e *render.Emitter) {
				for _, d := range extraDecls {
					render.RenderDecl(e, d)
					e.Blank()
				}
			})),
		}
	default:
		return OutputFile{
			Name: "Types.swift",
			Contents: []byte(render.File(render.FileOptions{
				Imports: append(render.DefaultImports, cfg.AdditionalImports...),
			}, func(e *render.Emitter) {
				render.RenderDecl(e, types.Protocol)
				e.Blank()
				render.RenderDecl(e, types.Components)
				e.Blank()
				render.RenderDecl(e, types.Operations)
			})),
		}
	}
}
