package translate

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		mediaType string
		want      ContentCategory
	}{
		{"application/json", ContentJSON},
		{"application/problem+json", ContentJSON},
		{"application/json; charset=utf-8", ContentJSON},
		{"text/plain", ContentText},
		{"text/html", ContentText},
		{"application/x-www-form-urlencoded", ContentURLEncodedForm},
		{"multipart/form-data", ContentMultipart},
		{"application/octet-stream", ContentBinary},
		{"image/png", ContentBinary},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.mediaType); got != tt.want {
			t.Errorf("CategoryOf(%q) = %v, want %v", tt.mediaType, got, tt.want)
		}
	}
}

func TestSortedContents_PriorityOrder(t *testing.T) {
	content := openapi3.Content{
		"application/octet-stream": &openapi3.MediaType{},
		"text/plain":               &openapi3.MediaType{},
		"application/json":         &openapi3.MediaType{},
	}
	sorted := SortedContents(content)
	require.Equal(t, "application/json", sorted[0].MediaType)
	require.Equal(t, "text/plain", sorted[1].MediaType)
	require.Equal(t, "application/octet-stream", sorted[2].MediaType)
}

func TestSelectContents_SingleBestIsJSON(t *testing.T) {
	tr, _ := newTranslator(t, docHeader, nil)
	content := openapi3.Content{
		"application/octet-stream": &openapi3.MediaType{},
		"text/plain":               &openapi3.MediaType{},
		"application/json":         &openapi3.MediaType{},
	}
	selected := tr.SelectContents(content)
	require.Len(t, selected, 1)
	require.Equal(t, "application/json", selected[0].MediaType)
}

func TestSelectContents_MultipleWithFeature(t *testing.T) {
	tr, _ := newTranslator(t, docHeader+`
components: {}
`, nil)
	tr.cfg.FeatureFlags = []string{"multipleContentTypes"}
	content := openapi3.Content{
		"application/json": &openapi3.MediaType{},
		"text/plain":       &openapi3.MediaType{},
	}
	selected := tr.SelectContents(content)
	require.Len(t, selected, 2)
}

func TestCaseNameForMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{"application/json", "json"},
		{"text/plain", "plainText"},
		{"application/x-www-form-urlencoded", "urlEncodedForm"},
		{"multipart/form-data", "multipartForm"},
		{"application/octet-stream", "binary"},
		{"application/vnd.api+json", "vndApi_json"},
		{"application/my-format", "application_slash_my_hyphen_format"},
	}
	for _, tt := range tests {
		if got := CaseNameForMediaType(tt.mediaType); got != tt.want {
			t.Errorf("CaseNameForMediaType(%q) = %q, want %q", tt.mediaType, got, tt.want)
		}
	}
}
