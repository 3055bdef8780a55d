package storage

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data/sheets"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, errors.Wrap(err, "create sheet dir")
	}
	return &FSStore{base: base}, nil
}

// PutSheet writes the sheet and returns its file:// URL.
func (s *FSStore) PutSheet(key SheetKey, r io.Reader) (string, error) {
	dst := filepath.Join(s.base, filepath.FromSlash(key.Path()))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", errors.Wrap(err, "create sheet dir")
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "create sheet")
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "write sheet")
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		abs = dst
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
