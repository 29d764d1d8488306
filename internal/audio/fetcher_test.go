package audio

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "https://awsaudiouploads.s3.amazonaws.com"

type fakeGetter struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
	calls   []string
}

func (g *fakeGetter) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, bucket+"/"+key)
	if g.err != nil {
		return nil, g.err
	}
	return g.objects[key], nil
}

func newTestFetcher(t *testing.T, getter ObjectGetter) (*Fetcher, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	f, err := NewFetcher(getter, Options{
		Origin:   origin,
		Bucket:   "awsaudiouploads",
		CacheDir: "/cache",
		FS:       fs,
	})
	require.NoError(t, err)
	return f, fs
}

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "nested key", ref: origin + "/replies/2025/a.mp3", want: "replies/2025/a.mp3"},
		{name: "query string dropped", ref: origin + "/a.mp3?X-Amz-Signature=abc", want: "a.mp3"},
		{name: "parent segments cannot escape", ref: origin + "/../../etc/passwd", want: "etc/passwd"},
		{name: "foreign origin", ref: "https://example.com/a.mp3", wantErr: ErrForeignOrigin},
		{name: "origin only", ref: origin + "/", wantErr: ErrEmptyKey},
		{name: "empty", ref: "", wantErr: ErrForeignOrigin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocator(origin, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("origin with trailing slash", func(t *testing.T) {
		got, err := ParseLocator(origin+"/", origin+"/a.mp3")
		require.NoError(t, err)
		assert.Equal(t, "a.mp3", got)
	})
}

func TestFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("downloads once and serves from cache", func(t *testing.T) {
		getter := &fakeGetter{objects: map[string][]byte{"replies/a.mp3": []byte("ID3")}}
		f, fs := newTestFetcher(t, getter)

		local, err := f.Fetch(ctx, origin+"/replies/a.mp3")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/cache", "replies", "a.mp3"), local)

		data, err := afero.ReadFile(fs, local)
		require.NoError(t, err)
		assert.Equal(t, []byte("ID3"), data)

		again, err := f.Fetch(ctx, origin+"/replies/a.mp3")
		require.NoError(t, err)
		assert.Equal(t, local, again)
		assert.Equal(t, []string{"awsaudiouploads/replies/a.mp3"}, getter.calls)
	})

	t.Run("empty body is an error", func(t *testing.T) {
		f, fs := newTestFetcher(t, &fakeGetter{objects: map[string][]byte{}})

		_, err := f.Fetch(ctx, origin+"/missing.mp3")
		assert.ErrorIs(t, err, ErrEmptyObject)

		exists, err := afero.Exists(fs, "/cache/missing.mp3")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		boom := errors.New("access denied")
		f, _ := newTestFetcher(t, &fakeGetter{err: boom})

		_, err := f.Fetch(ctx, origin+"/a.mp3")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("foreign references never reach the store", func(t *testing.T) {
		getter := &fakeGetter{}
		f, _ := newTestFetcher(t, getter)

		_, err := f.Fetch(ctx, "https://elsewhere.example/a.mp3")
		assert.ErrorIs(t, err, ErrForeignOrigin)
		assert.Empty(t, getter.calls)
	})
}

func TestFetcher_FetchAsync(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers the local path", func(t *testing.T) {
		f, _ := newTestFetcher(t, &fakeGetter{objects: map[string][]byte{"a.mp3": []byte("ID3")}})

		local, ok := <-f.FetchAsync(ctx, origin+"/a.mp3")
		assert.True(t, ok)
		assert.Equal(t, filepath.Join("/cache", "a.mp3"), local)
	})

	t.Run("failures close the channel empty", func(t *testing.T) {
		f, _ := newTestFetcher(t, &fakeGetter{err: errors.New("offline")})

		_, ok := <-f.FetchAsync(ctx, origin+"/a.mp3")
		assert.False(t, ok)
	})
}
