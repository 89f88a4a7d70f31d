// Package uploads handles storage of user-provided image files.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// AllowedExtensions lists the accepted image file extensions (lowercase,
// without the dot).
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// IsAllowed reports whether the filename carries an accepted image extension.
func IsAllowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return AllowedExtensions[ext]
}

// SecureFilename strips any path components from a client-supplied filename
// and replaces characters that are unsafe on disk.
func SecureFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}

// Save writes an uploaded file into dir under a unique name and returns the
// stored filename and its full path. The caller is expected to have checked
// IsAllowed first.
func Save(dir string, file *multipart.FileHeader) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	stored := fmt.Sprintf("%s_%s", uuid.NewString(), SecureFilename(file.Filename))
	fullPath := filepath.Join(dir, stored)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", "", fmt.Errorf("failed to write stored file: %w", err)
	}
	return stored, fullPath, nil
}
