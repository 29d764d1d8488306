package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStream = `{"kind":"UserMessage","text":"show me the status"}

{"kind":"AgentJSON","text":"json{'status': 'ok'}"}
not even json
{"kind":"AgentSong","text":"la la"}
{"kind":"AgentWarning","text":"rate limited"}
`

func TestReader_ReadEvents(t *testing.T) {
	events, err := NewReader().ReadEvents(strings.NewReader(sampleStream))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, KindUserMessage, events[0].Kind())
	assert.Equal(t, KindAgentJSON, events[1].Kind())
	assert.Equal(t, KindAgentWarning, events[2].Kind())
	assert.Equal(t, "rate limited", events[2].Text())
}

func TestReader_ReadFileFromOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	first := `{"kind":"UserMessage","text":"one"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(first+`{"kind":"UserMess`), 0o644))

	r := NewReader()
	events, offset, err := r.ReadFileFromOffset(path, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(len(first)), offset)

	rest := `{"kind":"UserMessage","text":"two"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(first+rest), 0o644))

	events, offset, err = r.ReadFileFromOffset(path, offset)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "two", events[0].Text())
	assert.Equal(t, int64(len(first+rest)), offset)

	events, same, err := r.ReadFileFromOffset(path, offset)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, offset, same)
}

func TestReader_ReadFileMissing(t *testing.T) {
	_, err := NewReader().ReadFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestReader_ReadFileFromOffsetAfterTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	long := `{"kind":"UserMessage","text":"a long first message"}` + "\n" +
		`{"kind":"UserMessage","text":"and another"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(long), 0o644))

	r := NewReader()
	_, offset, err := r.ReadFileFromOffset(path, 0)
	require.NoError(t, err)

	rotated := `{"kind":"AgentWarning","text":"fresh"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(rotated), 0o644))

	events, next, err := r.ReadFileFromOffset(path, offset)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "fresh", events[0].Text())
	assert.Equal(t, int64(len(rotated)), next)
}
