package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagCmd_AddAndRemove(t *testing.T) {
	setupTestServices(t)
	_, err := run(t, "process", "--plain", "letter.png")
	require.NoError(t, err)

	out, err := run(t, "tag", "add", "doc-1", "Family", "Family", " ")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Family"`)
	assert.Contains(t, out, `Skipped "Family" (blank or already tagged)`)
	assert.Contains(t, out, `Skipped " "`)

	doc, err := session.Document(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Contains(t, doc.Tags, "Family")

	out, err = run(t, "tag", "remove", "doc-1", "Family", "Missing")
	require.NoError(t, err)
	assert.Contains(t, out, `Removed "Family"`)
	assert.Contains(t, out, `Skipped "Missing" (not tagged)`)

	doc, err = session.Document(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.NotContains(t, doc.Tags, "Family")
}

func TestTagCmd_NoActiveBatch(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "tag", "add", "doc-1", "Family")

	assert.Error(t, err)
}

func TestTagCmd_RequiresTag(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "tag", "add", "doc-1")

	assert.Error(t, err)
}
