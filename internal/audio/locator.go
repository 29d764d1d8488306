// Package audio resolves agent message audio references into local files
// that a player can open.
package audio

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrForeignOrigin is returned for references outside the configured origin.
	ErrForeignOrigin = errors.New("audio reference is not under the configured origin")
	// ErrEmptyKey is returned when a reference names no object.
	ErrEmptyKey = errors.New("audio reference has no object key")
	// ErrEmptyObject is returned when the store hands back no bytes.
	ErrEmptyObject = errors.New("audio object body is empty")
)

// ParseLocator splits a reference of the form <origin>/<object-key> and
// returns the object key.
func ParseLocator(origin, ref string) (string, error) {
	prefix := strings.TrimSuffix(origin, "/") + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignOrigin, ref)
	}

	key := strings.TrimPrefix(ref, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyKey, ref)
	}
	return key, nil
}
