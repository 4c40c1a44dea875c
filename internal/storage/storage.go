// Package storage persists uploaded files under generated, sanitized names.
// The database only keeps the returned filename.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// FilesPrefix is the route the API streams stored files from.
const FilesPrefix = "/files"

// Folders group files by what references them.
const (
	FolderImages         = "uploads"
	FolderEstimates      = "estimates"
	FolderProjectUploads = "project_uploads"
)

var (
	ErrInvalidFolder = errors.New("invalid storage folder")
	ErrInvalidName   = errors.New("invalid file name")
	ErrFileNotFound  = errors.New("file not found")
)

var folders = map[string]bool{
	FolderImages:         true,
	FolderEstimates:      true,
	FolderProjectUploads: true,
}

// FileStore is implemented by LocalStore and S3Store.
type FileStore interface {
	Save(ctx context.Context, folder, name, contentType string, body io.Reader) error
	Open(ctx context.Context, folder, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, folder, name string) error
	// URL is where a client can fetch the file.
	URL(folder, name string) string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// MaxNameLength caps a sanitized name so prefixed names fit their columns.
const MaxNameLength = 120

// SecureFilename reduces a client-supplied name to ASCII letters, digits,
// '_', '.' and '-'. Path separators become underscores and leading dots are
// stripped, so the result never escapes its folder. Long names are cut to
// MaxNameLength, keeping a short extension. It may return "".
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return clip(strings.Trim(name, "._"))
}

func clip(name string) string {
	if len(name) <= MaxNameLength {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	return strings.TrimRight(name[:MaxNameLength-len(ext)], "._") + ext
}

// UniqueName prefixes the sanitized name with 8 random hex digits.
func UniqueName(original string) string {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	clean := SecureFilename(original)
	if clean == "" {
		return prefix
	}
	return prefix + "_" + clean
}

// PrefixedName is "<prefix>_<sanitized original>".
func PrefixedName(prefix, original string) string {
	clean := SecureFilename(original)
	if clean == "" {
		return SecureFilename(prefix)
	}
	return SecureFilename(prefix) + "_" + clean
}

// IsImage reports whether name has an image extension browsers render.
func IsImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

func checkKey(folder, name string) error {
	if !folders[folder] {
		return ErrInvalidFolder
	}
	if name == "" || name != SecureFilename(name) {
		return ErrInvalidName
	}
	return nil
}
