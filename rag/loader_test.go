package rag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoadFile_KeepsTextAndSource(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "src/a.ts", "const a = 1;\n")

	doc, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, p, doc.Source)
	assert.Equal(t, "const a = 1;\n", doc.Text)
}

func TestLoadFile_RejectsInvalidUTF8(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.md")
	require.NoError(t, os.WriteFile(p, []byte{0xff, 0xfe, 'h', 'i', 0xc3}, 0o644))

	_, err := LoadFile(p)
	assert.ErrorIs(t, err, ErrNotUTF8)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "gone.md"))
	assert.Error(t, err)
}

func TestLoadFile_BrokenPDF(t *testing.T) {
	p := writeFile(t, t.TempDir(), "doc.pdf", "not really a pdf")

	_, err := LoadFile(p)
	assert.Error(t, err)
}

func TestLoadAll_SkipsFailuresAndKeepsTheRest(t *testing.T) {
	root := t.TempDir()
	good1 := writeFile(t, root, "a.md", "# alpha")
	bad := filepath.Join(root, "b.md")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xff}, 0o644))
	good2 := writeFile(t, root, "c.js", "beta()")
	missing := filepath.Join(root, "missing.ts")

	docs := LoadAll(zaptest.NewLogger(t), []string{good1, bad, missing, good2})
	require.Len(t, docs, 2)
	assert.Equal(t, good1, docs[0].Source)
	assert.Equal(t, good2, docs[1].Source)
}
