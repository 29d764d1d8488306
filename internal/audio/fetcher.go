package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grovetools/core/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Fetcher turns audio references into cached local files.
type Fetcher struct {
	getter   ObjectGetter
	fs       afero.Fs
	cacheDir string
	origin   string
	bucket   string
	timeout  time.Duration
	logger   *logrus.Entry
}

// Options configures a Fetcher. Zero FS means the OS filesystem.
type Options struct {
	Origin   string
	Bucket   string
	CacheDir string
	Timeout  time.Duration
	FS       afero.Fs
}

// NewFetcher creates a fetcher reading objects through getter.
func NewFetcher(getter ObjectGetter, opts Options) (*Fetcher, error) {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("getting user cache directory: %w", err)
		}
		cacheDir = filepath.Join(userCache, "agchat", "audio")
	}

	return &Fetcher{
		getter:   getter,
		fs:       fs,
		cacheDir: cacheDir,
		origin:   opts.Origin,
		bucket:   opts.Bucket,
		timeout:  opts.Timeout,
		logger:   logging.NewLogger("agchat.audio"),
	}, nil
}

// Fetch returns the local path of the audio behind ref, downloading it on
// first use.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (string, error) {
	key, err := ParseLocator(f.origin, ref)
	if err != nil {
		return "", err
	}

	local := filepath.Join(f.cacheDir, filepath.FromSlash(key))
	if ok, err := afero.Exists(f.fs, local); err == nil && ok {
		f.logger.WithField("key", key).Debug("Audio cache hit")
		return local, nil
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	f.logger.WithFields(logrus.Fields{"bucket": f.bucket, "key": key}).Debug("Fetching audio file")
	data, err := f.getter.GetObject(ctx, f.bucket, key)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyObject, key)
	}

	if err := f.fs.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return "", fmt.Errorf("creating audio cache directory: %w", err)
	}
	if err := afero.WriteFile(f.fs, local, data, 0o644); err != nil {
		return "", fmt.Errorf("writing audio file: %w", err)
	}
	return local, nil
}

// FetchAsync fetches ref in the background. The channel yields the local
// path on success; on failure the error is logged and the channel closes
// empty.
func (f *Fetcher) FetchAsync(ctx context.Context, ref string) <-chan string {
	out := make(chan string, 1)
	go func() {
		defer close(out)
		local, err := f.Fetch(ctx, ref)
		if err != nil {
			f.logger.WithError(err).WithField("ref", ref).Warn("Error fetching audio file")
			return
		}
		out <- local
	}()
	return out
}
