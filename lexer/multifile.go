package lexer

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSet tokenizes files relative to a base directory, caching file
// contents so repeated loads of the same path read the disk once. Reading a
// source file is the only operation in the front-end that can fail.
type FileSet struct {
	baseDir string
	cache   map[string]string
}

// NewFileSet creates a file set rooted at baseDir. Relative paths passed to
// Load and TokenizeFile resolve against it; absolute paths are used as-is.
func NewFileSet(baseDir string) *FileSet {
	return &FileSet{
		baseDir: baseDir,
		cache:   make(map[string]string),
	}
}

// Resolve returns the absolute form of path under the set's base directory.
func (fs *FileSet) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(fs.baseDir, path)
}

// Load returns the contents of path, reading it at most once per FileSet.
func (fs *FileSet) Load(path string) (string, error) {
	resolved := fs.Resolve(path)

	if content, ok := fs.cache[resolved]; ok {
		return content, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", resolved, err)
	}

	content := string(data)
	fs.cache[resolved] = content
	return content, nil
}

// TokenizeFile loads and tokenizes path. Token spans carry the resolved
// path so diagnostics point at the real file.
func (fs *FileSet) TokenizeFile(path string) ([]Token, error) {
	resolved := fs.Resolve(path)

	content, err := fs.Load(path)
	if err != nil {
		return nil, err
	}

	return Tokenize(content, resolved), nil
}
