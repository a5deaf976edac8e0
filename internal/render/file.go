package render

import (
	"sort"
	"strings"
)

// fileHeader is the marker at the top of every generated file.
const fileHeader = "// Generated by oaswift. Do not edit."

// FileOptions configure one rendered file.
type FileOptions struct {
	// Imports are module imports emitted after the header, deduplicated
	// and sorted.
	Imports []string
	// ReexportedImports use "@_exported import", exposing the module to
	// files that import only this one.
	ReexportedImports []string
}

// File renders a complete Swift file: header, imports, a blank line, then
// whatever the render callback writes. Rendering is idempotent: the same
// IR always produces byte-identical output.
func File(opts FileOptions, render func(e *Emitter)) string {
	e := NewEmitter()
	e.Line(fileHeader)

	imports := dedupeSorted(opts.Imports)
	reexports := dedupeSorted(opts.ReexportedImports)
	if len(imports)+len(reexports) > 0 {
		e.Blank()
		for _, imp := range imports {
			e.Line("import %s", imp)
		}
		for _, imp := range reexports {
			e.Line("@_exported import %s", imp)
		}
	}
	e.Blank()
	render(e)
	return strings.TrimRight(e.String(), "\n") + "\n"
}

func dedupeSorted(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultImports are the module imports every generated file carries.
var DefaultImports = []string{"OpenAPIRuntime", "Foundation"}

// ClientServerImports extends DefaultImports for dispatch files.
var ClientServerImports = []string{"OpenAPIRuntime", "Foundation", "HTTPTypes"}
