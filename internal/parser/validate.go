package parser

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oaswift/oaswift/internal/diagnostic"
)

// Validate runs structural checks over a parsed document and reports
// findings as diagnostics. Recoverable issues are warnings; only
// contradictions that make generation impossible are errors.
func Validate(doc *openapi3.T, sink diagnostic.Collector) error {
	if doc.Paths == nil {
		if err := diagnostic.Note(sink, "document contains no paths", nil); err != nil {
			return err
		}
		return nil
	}

	seenOperationIDs := map[string]string{}
	for _, path := range sortedPathKeys(doc.Paths) {
		item := doc.Paths.Value(path)
		for method, op := range operationsByMethod(item) {
			if op.OperationID == "" {
				if err := diagnostic.Warning(sink,
					fmt.Sprintf("operation %s %s has no operationId, a name will be derived from the method and path", method, path),
					nil,
				); err != nil {
					return err
				}
				continue
			}
			if prev, ok := seenOperationIDs[op.OperationID]; ok {
				if err := diagnostic.Error(sink,
					fmt.Sprintf("duplicate operationId %q, also used by %s", op.OperationID, prev),
					nil,
					map[string]string{"operation": method + " " + path},
				); err != nil {
					return err
				}
				continue
			}
			seenOperationIDs[op.OperationID] = method + " " + path

			if op.Responses == nil || op.Responses.Len() == 0 {
				if err := diagnostic.Warning(sink,
					fmt.Sprintf("operation %q declares no responses, only undocumented outputs will be generated", op.OperationID),
					nil,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// operationsByMethod collects the operations of a path item keyed by their
// uppercase HTTP method. The map is unordered; SortedOperations applies
// MethodOrder.
func operationsByMethod(item *openapi3.PathItem) map[string]*openapi3.Operation {
	out := map[string]*openapi3.Operation{}
	for method, op := range map[string]*openapi3.Operation{
		http.MethodGet:     item.Get,
		http.MethodPut:     item.Put,
		http.MethodPost:    item.Post,
		http.MethodDelete:  item.Delete,
		http.MethodOptions: item.Options,
		http.MethodHead:    item.Head,
		http.MethodPatch:   item.Patch,
		http.MethodTrace:   item.Trace,
	} {
		if op != nil {
			out[method] = op
		}
	}
	return out
}

// MethodOrder is the deterministic order operations are visited in within
// one path item.
var MethodOrder = []string{
	http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
	http.MethodOptions, http.MethodHead, http.MethodPatch, http.MethodTrace,
}

// SortedOperations returns the operations of a path item in MethodOrder.
func SortedOperations(item *openapi3.PathItem) []struct {
	Method string
	Op     *openapi3.Operation
} {
	byMethod := operationsByMethod(item)
	var out []struct {
		Method string
		Op     *openapi3.Operation
	}
	for _, m := range MethodOrder {
		if op, ok := byMethod[m]; ok {
			out = append(out, struct {
				Method string
				Op     *openapi3.Operation
			}{m, op})
		}
	}
	return out
}

// sortedPathKeys returns the path templates in lexical order. kin-openapi
// stores paths in a Go map, so document order is not available; the
// lexical sort is what keeps output deterministic across runs.
func sortedPathKeys(paths *openapi3.Paths) []string {
	keys := make([]string, 0, paths.Len())
	for k := range paths.Map() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortedPathKeys is the exported form used by the translators and filter.
func SortedPathKeys(paths *openapi3.Paths) []string {
	return sortedPathKeys(paths)
}

// ComponentPath renders the JSON pointer of a named component schema.
func ComponentPath(name string) string {
	return "#/components/schemas/" + name
}

// RefName extracts the component name from a "#/components/schemas/Name"
// reference, returning false for external or non-schema refs.
func RefName(ref string) (string, bool) {
	const prefix = "#/components/schemas/"
	if strings.HasPrefix(ref, prefix) {
		return strings.TrimPrefix(ref, prefix), true
	}
	return "", false
}
