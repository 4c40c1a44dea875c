package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// LocalStore keeps files under a directory on disk.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates root and its folders. Files are served under
// urlPrefix.
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	for folder := range folders {
		if err := os.MkdirAll(filepath.Join(root, folder), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", folder, err)
		}
	}
	return &LocalStore{root: root, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Save(_ context.Context, folder, name, _ string, body io.Reader) error {
	if err := checkKey(folder, name); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(s.root, folder, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, body); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func (s *LocalStore) Open(_ context.Context, folder, name string) (io.ReadCloser, error) {
	if err := checkKey(folder, name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.root, folder, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	return f, err
}

func (s *LocalStore) Delete(_ context.Context, folder, name string) error {
	if err := checkKey(folder, name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, folder, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(folder, name string) string {
	return s.urlPrefix + "/" + folder + "/" + url.PathEscape(name)
}
