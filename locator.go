package matstream

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/scigolib/matstream/internal/utils"
)

// Locator resolves a logical dataset identifier to a stable local file
// path. How the file gets there (download, copy, mount) is the locator's
// concern; the engine only needs the resolved path.
type Locator interface {
	Resolve(id string) (string, error)
}

// PathLocator maps dataset identifiers to fixed local paths.
type PathLocator map[string]string

// Resolve returns the registered path for id.
func (l PathLocator) Resolve(id string) (string, error) {
	path, ok := l[id]
	if !ok {
		return "", fmt.Errorf("%w: unknown dataset %q", ErrInvalidArgument, id)
	}
	return path, nil
}

// CacheLocator copies a dataset from its origin into a cache directory the
// first time it is resolved and serves the cached copy afterwards. The
// origin is consulted only on a cache miss, so repeated runs against the
// same dataset pay the transfer cost once.
type CacheLocator struct {
	Origin Locator
	Dir    string
}

// Resolve returns the cached path for id, populating the cache on miss.
func (l *CacheLocator) Resolve(id string) (string, error) {
	cached := filepath.Join(l.Dir, url.PathEscape(id))
	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}

	src, err := l.Origin.Resolve(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.Dir, 0o750); err != nil {
		return "", utils.WrapError("cache dir create failed", err)
	}
	if err := copyFile(src, cached); err != nil {
		return "", utils.WrapError("cache populate failed", err)
	}
	return cached, nil
}

// copyFile copies via a temp file in the same directory, renaming into
// place so a crashed copy never leaves a partial cache entry.
func copyFile(src, dst string) error {
	//nolint:gosec // G304: resolved dataset path is intentional
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
