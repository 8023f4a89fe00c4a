// Package filesystem reads scanned documents from local disk and watches
// inbox directories for new ones.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/docscan/internal/core/domain"
	"github.com/custodia-labs/docscan/internal/logger"
)

// MaxFileSize bounds how much of a single file is read.
const MaxFileSize = 200 << 20

// Load reads the named files. Directories are walked recursively and
// contribute only supported files, in lexical order; hidden entries are
// skipped. Files named explicitly are returned whatever their type, so the
// processor can report them as unsupported.
func Load(ctx context.Context, paths ...string) ([]domain.SourceFile, error) {
	var files []domain.SourceFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s does not exist", domain.ErrNotFound, p)
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			f, err := ReadFile(p)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
			continue
		}

		found, err := loadDir(ctx, p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func loadDir(ctx context.Context, root string) ([]domain.SourceFile, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(paths)

	var files []domain.SourceFile
	for _, p := range paths {
		f, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		if !f.IsSupported() {
			logger.Debug("Skipping %s (%s)", p, f.MIMEType)
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// ReadFile reads one file and sniffs its content type.
func ReadFile(path string) (domain.SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return domain.SourceFile{}, fmt.Errorf("%w: %s is larger than %d bytes",
			domain.ErrInvalidInput, path, MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return domain.SourceFile{
		Name:     filepath.Base(path),
		MIMEType: detectMIMEType(content),
		Content:  content,
	}, nil
}

// detectMIMEType sniffs content, dropping parameters such as charset.
func detectMIMEType(content []byte) string {
	mime := mimetype.Detect(content).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
