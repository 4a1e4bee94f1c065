package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/gemdocs"
	"gopkg.in/yaml.v3"
)

// Ensure FileStore implements gemdocs.PageStore at compile time.
var _ gemdocs.PageStore = (*FileStore)(nil)

// FileStore writes pages as markdown files with atomic update semantics.
// Pages are saved to a temporary directory, then moved into place on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes page below the temporary directory.
func (s *FileStore) Save(_ context.Context, page *gemdocs.Page) error {
	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}

	content, err := FormatPage(page)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, content, 0o644)
}

// Commit replaces the output directory with the saved pages.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort removes the saved pages.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// frontmatter is the YAML header of an exported page.
type frontmatter struct {
	Source      string `yaml:"source"`
	Title       string `yaml:"title"`
	Capability  string `yaml:"capability,omitempty"`
	Section     string `yaml:"section,omitempty"`
	Updated     string `yaml:"updated,omitempty"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

// FormatPage renders a page as markdown with YAML frontmatter.
func FormatPage(page *gemdocs.Page) ([]byte, error) {
	fm := frontmatter{
		Source:      page.URL,
		Title:       page.Title,
		Capability:  page.Capability,
		Section:     page.Section,
		Fingerprint: page.Fingerprint,
	}
	if !page.UpdatedAt.IsZero() {
		fm.Updated = page.UpdatedAt.UTC().Format(time.RFC3339)
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(page.Body)
	b.WriteByte('\n')
	return b.Bytes(), nil
}
