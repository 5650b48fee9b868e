package imagestore

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/wittayakom/core"
)

// localStore writes the images under dir, served by the API under baseURL.
type localStore struct {
	dir     string
	baseURL string
	maxDim  int
}

var _ core.ImageStore = (*localStore)(nil)

func NewLocalStore(dir, baseURL string, maxDim int) core.ImageStore {
	return &localStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/"), maxDim: maxDim}
}

func (s *localStore) Upload(_ context.Context, folder, filename string, r io.Reader) (string, error) {
	img, err := process(r, s.maxDim)
	if err != nil {
		return "", err
	}
	name := uniqueName(folder, filename, img.ext)

	fp := filepath.Join(s.dir, filepath.FromSlash(name))
	if err = os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return "", errors.Wrap(err, "creating image folder")
	}
	if err = os.WriteFile(fp, img.data.Bytes(), 0o644); err != nil {
		return "", errors.Wrap(err, "writing image")
	}
	return s.baseURL + "/" + name, nil
}

func (s *localStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return nil
	}
	name := path.Clean("/" + strings.TrimPrefix(url, s.baseURL+"/"))
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing image")
	}
	return nil
}
