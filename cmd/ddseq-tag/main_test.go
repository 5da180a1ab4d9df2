package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/ddseq/tagger"
)

func TestTagFASTQ(t *testing.T) {
	okRead := "CATGCA" + tagger.Linker1 + "TTTGGG" + tagger.Linker2 +
		"AACCGG" + "ACG" + "ACGTACGT" + "GAC"
	r1 := "@pair1\n" + okRead + "\n+\n" + strings.Repeat("F", len(okRead)) + "\n" +
		"@pair2\nACGTACGT\n+\nFFFFFFFF\n"
	r2 := "@pair1\nTTTTTTTTTT\n+\nIIIIIIIIII\n" +
		"@pair2\nGGGGGGGGGG\n+\nIIIIIIIIII\n"

	dir := t.TempDir()
	r1Path := filepath.Join(dir, "r1.fq")
	r2Path := filepath.Join(dir, "r2.fq")
	outPath := filepath.Join(dir, "tagged.fq")
	assert.NoError(t, os.WriteFile(r1Path, []byte(r1), 0666))
	assert.NoError(t, os.WriteFile(r2Path, []byte(r2), 0666))

	ctx := context.Background()
	tg := tagger.NewTagger(tagger.Dict{"CATGCA", "TTTGGG", "AACCGG"})
	stats := tagger.NewStats()
	assert.NoError(t, tagFASTQ(ctx, r1Path, r2Path, outPath, tg, 2, stats))

	got, err := os.ReadFile(outPath)
	assert.NoError(t, err)
	want := "@pair1 XB:Z:CATGCATTTGGGAACCGG XU:Z:ACGTACGT\nTTTTTTTTTT\n+\nIIIIIIIIII\n" +
		"@pair2 XE:Z:LX\nGGGGGGGGGG\n+\nIIIIIIIIII\n"
	assert.Equal(t, want, string(got))

	assert.Equal(t, 1, stats.Pass)
	assert.Equal(t, 1, stats.Errors[tagger.ErrNoLinker])
	assert.Equal(t, 2, stats.Total())
}

func TestTagFASTQMissingInput(t *testing.T) {
	dir := t.TempDir()
	r2Path := filepath.Join(dir, "r2.fq")
	assert.NoError(t, os.WriteFile(r2Path, []byte("@pair1\nACGT\n+\nFFFF\n"), 0666))

	ctx := context.Background()
	tg := tagger.NewTagger(tagger.Dict{"CATGCA"})
	err := tagFASTQ(ctx, filepath.Join(dir, "absent.fq"), r2Path,
		filepath.Join(dir, "tagged.fq"), tg, 1, tagger.NewStats())
	assert.Error(t, err)
}
