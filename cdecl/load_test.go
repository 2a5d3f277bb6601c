package cdecl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "window.yaml"))
	require.NoError(t, err)

	require.Equal(t, KindTranslationUnit, d.Kind)
	require.Len(t, d.Children, 2)

	fn := d.Children[0]
	assert.Equal(t, KindFunction, fn.Kind)
	assert.Equal(t, "/proj/include/window.h", fn.Location.File)
	assert.Equal(t, TypePointer, fn.Result.Kind)
	assert.Equal(t, "na_window_t", fn.Result.Pointee.Name)
	assert.Equal(t, "const char*", fn.Children[0].Type.Spelling())

	assert.Equal(t, []string{"NA_MAX", "16"}, d.Children[1].Tokens)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"kind":"struct","nmae":"x"}`), "json")
	assert.Error(t, err)

	_, err = Decode([]byte("kind: struct\nnmae: x\n"), "yaml")
	assert.Error(t, err)

	_, err = Decode([]byte(`{}`), "json")
	assert.ErrorContains(t, err, "no kind")

	_, err = Decode([]byte(`{}`), "toml")
	assert.ErrorContains(t, err, "unsupported")
}

func TestDocumentProviderMerges(t *testing.T) {
	root, err := DocumentProvider{}.Parse(context.Background(), Request{
		EntryHeaders: []string{
			filepath.Join("testdata", "window.yaml"),
			filepath.Join("testdata", "extra.json"),
		},
	})
	require.NoError(t, err)

	var names []string
	Walk(root, func(d *Decl) bool {
		if d.Name != "" {
			names = append(names, d.Name)
		}
		return d.Kind != KindFunction
	})
	assert.Equal(t, []string{"na_window_create", "NA_MAX", "na_state_t", "NA_ON"}, names)

	enum := root.Children[2]
	require.NotNil(t, enum.Children[0].Value)
	assert.Equal(t, int64(1), *enum.Children[0].Value)
}

func TestIsDocument(t *testing.T) {
	assert.True(t, IsDocument("a/decls.JSON"))
	assert.True(t, IsDocument("decls.yml"))
	assert.False(t, IsDocument("window.h"))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindNamespace.IsContainer())
	assert.False(t, KindStruct.IsContainer())
	assert.True(t, KindClass.IsRecord())
	assert.False(t, KindEnum.IsRecord())
}
