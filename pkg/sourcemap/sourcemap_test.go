package sourcemap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDecodeRegular(t *testing.T) {
	data := []byte(`{
		"version": 3,
		"sources": ["webpack:///./src/a.js", "webpack:///./src/sub/b.js"],
		"sourcesContent": ["A", "B"],
		"mappings": "AAAA"
	}`)

	sm, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"webpack:///./src/a.js", "webpack:///./src/sub/b.js"}, sm.Sources)
	require.Len(t, sm.SourcesContent, 2)
	assert.Equal(t, "A", *sm.SourcesContent[0])
	assert.Equal(t, "B", *sm.SourcesContent[1])
}

func TestDecodeNullContentPreserved(t *testing.T) {
	data := []byte(`{
		"version": 3,
		"sources": ["webpack:///./y.js", "webpack:///./z.js"],
		"sourcesContent": ["Y", null],
		"mappings": ""
	}`)

	sm, err := Decode(data)
	require.NoError(t, err)

	entries := sm.Entries()
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Content)
	assert.Equal(t, "Y", *entries[0].Content)
	assert.Nil(t, entries[1].Content)
}

func TestDecodeMissingContentArray(t *testing.T) {
	data := []byte(`{"version": 3, "sources": ["a.js", "b.js"], "mappings": ""}`)

	sm, err := Decode(data)
	require.NoError(t, err)

	entries := sm.Entries()
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].Content)
	assert.Nil(t, entries[1].Content)
}

func TestDecodeIndexedFlatten(t *testing.T) {
	data := []byte(`{
		"version": 3,
		"sections": [
			{"offset": {"line": 0, "column": 0}, "map": {
				"version": 3,
				"sources": ["webpack:///./x.js"],
				"sourcesContent": ["X"],
				"mappings": "AAAA"
			}}
		]
	}`)

	sm, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"webpack:///./x.js"}, sm.Sources)
	require.Len(t, sm.SourcesContent, 1)
	assert.Equal(t, "X", *sm.SourcesContent[0])
}

func TestDecodeIndexedSectionOrder(t *testing.T) {
	data := []byte(`{
		"version": 3,
		"sections": [
			{"offset": {"line": 0, "column": 0}, "map": {"version": 3, "sources": ["a.js"], "sourcesContent": ["A"], "mappings": ""}},
			{"offset": {"line": 10, "column": 0}, "map": {"version": 3, "sources": ["b.js"], "sourcesContent": ["B"], "mappings": ""}}
		]
	}`)

	sm, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "b.js"}, sm.Sources)
}

// 展开后的结果应与等价的 regular map 一致
func TestDecodeIndexedEquivalentToFlat(t *testing.T) {
	indexed := []byte(`{
		"version": 3,
		"sections": [
			{"offset": {"line": 0, "column": 0}, "map": {"version": 3, "sources": ["a.js"], "sourcesContent": ["A"], "mappings": ""}},
			{"offset": {"line": 5, "column": 0}, "map": {"version": 3, "sources": ["b.js"], "sourcesContent": ["B"], "mappings": ""}}
		]
	}`)
	flat := []byte(`{"version": 3, "sources": ["a.js", "b.js"], "sourcesContent": ["A", "B"], "mappings": ""}`)

	smIndexed, err := Decode(indexed)
	require.NoError(t, err)
	smFlat, err := Decode(flat)
	require.NoError(t, err)

	assert.Equal(t, smFlat.Entries(), smIndexed.Entries())
}

func TestDecodeSourceRoot(t *testing.T) {
	data := []byte(`{"version": 3, "sourceRoot": "webpack://app", "sources": ["src/a.js"], "sourcesContent": ["A"], "mappings": ""}`)

	sm, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"webpack://app/src/a.js"}, sm.Sources)
}

func TestDecodeIndexedLocalContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "util.js"), []byte("LOCAL"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	data := []byte(`{
		"version": 3,
		"sections": [
			{"offset": {"line": 0, "column": 0}, "map": {"version": 3, "sources": ["lib/util.js"], "mappings": ""}}
		]
	}`)

	sm, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, sm.SourcesContent, 1)
	require.NotNil(t, sm.SourcesContent[0])
	assert.Equal(t, "LOCAL", *sm.SourcesContent[0])
}

func TestDecodeIndexedLocalContentTraversalRejected(t *testing.T) {
	data := []byte(`{
		"version": 3,
		"sections": [
			{"offset": {"line": 0, "column": 0}, "map": {"version": 3, "sources": ["../../etc/passwd", "/etc/passwd"], "mappings": ""}}
		]
	}`)

	sm, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, sm.SourcesContent, 2)
	assert.Nil(t, sm.SourcesContent[0])
	assert.Nil(t, sm.SourcesContent[1])
}

func TestDecodeUnsupported(t *testing.T) {
	cases := map[string][]byte{
		"malformed json":   []byte(`{not json`),
		"wrong version":    []byte(`{"version": 2, "sources": ["a.js"], "mappings": ""}`),
		"missing version":  []byte(`{"sources": ["a.js"], "mappings": ""}`),
		"unknown variant":  []byte(`{"version": 3, "mappings": "AAAA"}`),
		"section no map":   []byte(`{"version": 3, "sections": [{"offset": {"line": 0, "column": 0}}]}`),
		"empty document":   []byte(`{}`),
		"not a json object": []byte(`[1, 2, 3]`),
	}

	for name, data := range cases {
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrUnsupported, name)
	}
}

func TestEntriesPadsShortContent(t *testing.T) {
	sm := &SourceMap{
		Sources:        []string{"a.js", "b.js"},
		SourcesContent: []*string{strPtr("A")},
	}

	entries := sm.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "A", *entries[0].Content)
	assert.Nil(t, entries[1].Content)
}
