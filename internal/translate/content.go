package translate

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oaswift/oaswift/internal/ir"
	"github.com/oaswift/oaswift/internal/naming"
)

// ContentCategory classifies a media type by its body coding strategy.
type ContentCategory int

const (
	ContentJSON ContentCategory = iota
	ContentText
	ContentURLEncodedForm
	ContentMultipart
	ContentBinary
)

// Content pairs a media type with its schema and classification.
type Content struct {
	MediaType string
	Category  ContentCategory
	Media     *openapi3.MediaType
	// Usage is the Swift type of the body case's associated value, filled
	// in when the Body enum is translated.
	Usage ir.TypeUsage
}

// CategoryOf classifies a MIME type. JSON beats text beats form beats
// multipart beats binary when selecting a single body encoding.
func CategoryOf(mediaType string) ContentCategory {
	mt := strings.ToLower(mediaType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		return ContentJSON
	case strings.HasPrefix(mt, "text/"):
		return ContentText
	case mt == "application/x-www-form-urlencoded":
		return ContentURLEncodedForm
	case strings.HasPrefix(mt, "multipart/"):
		return ContentMultipart
	default:
		return ContentBinary
	}
}

// SortedContents classifies a content map and orders it by selection
// priority, then media type for determinism.
func SortedContents(content openapi3.Content) []Content {
	out := make([]Content, 0, len(content))
	for mediaType, media := range content {
		out = append(out, Content{
			MediaType: mediaType,
			Category:  CategoryOf(mediaType),
			Media:     media,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].MediaType < out[j].MediaType
	})
	return out
}

// SelectContents returns the content variants an operation body carries:
// all of them under the multiple-content-types feature, otherwise only the
// single highest-priority one.
func (t *Translator) SelectContents(content openapi3.Content) []Content {
	sorted := SortedContents(content)
	if len(sorted) == 0 {
		return nil
	}
	if t.multipleContentTypes() {
		return sorted
	}
	return sorted[:1]
}

func (t *Translator) multipleContentTypes() bool {
	return t.cfg.HasFeature("multipleContentTypes")
}

// canonicalCaseNames maps well-known media types to their conventional
// case names.
var canonicalCaseNames = map[string]string{
	"application/json":                  "json",
	"application/x-www-form-urlencoded": "urlEncodedForm",
	"multipart/form-data":               "multipartForm",
	"text/plain":                        "plainText",
	"text/html":                         "html",
	"text/css":                          "css",
	"text/csv":                          "csv",
	"text/javascript":                   "javascript",
	"text/event-stream":                 "eventStream",
	"application/octet-stream":          "binary",
	"application/pdf":                   "pdf",
	"application/xml":                   "xml",
	"application/zip":                   "zip",
	"image/png":                         "png",
	"image/jpeg":                        "jpeg",
	"image/gif":                         "gif",
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// CaseNameForMediaType derives the Swift case name of a content variant:
// the canonical table first, then a suffix-based name for structured
// syntaxes ("application/vnd.foo+json" → "vndFoo_json"), then a safe-name
// transform of the full MIME type.
func CaseNameForMediaType(mediaType string) string {
	mt := strings.ToLower(mediaType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if name, ok := canonicalCaseNames[mt]; ok {
		return name
	}
	if slash := strings.IndexByte(mt, '/'); slash >= 0 {
		sub := mt[slash+1:]
		if plus := strings.LastIndexByte(sub, '+'); plus >= 0 {
			base := naming.Defensive(strings.ReplaceAll(sub[:plus], ".", " "))
			parts := strings.Fields(strings.ReplaceAll(base, "_space_", " "))
			for i := 1; i < len(parts); i++ {
				parts[i] = titleCaser.String(parts[i])
			}
			return strings.Join(parts, "") + "_" + sub[plus+1:]
		}
	}
	return naming.Defensive(mt)
}
