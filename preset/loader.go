package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// filePattern matches every preset file the loader can read.
const filePattern = "*.{txt,yaml,yml}"

// Loader resolves preset references against an ordered list of directories
// and parses them. The first directory holding a name wins.
type Loader struct {
	SearchPaths []string
	Logger      *zap.Logger
}

// NewLoader returns a Loader over searchPaths. Blank entries are ignored.
func NewLoader(logger *zap.Logger, searchPaths ...string) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{Logger: logger}
	for _, p := range searchPaths {
		if strings.TrimSpace(p) != "" {
			l.SearchPaths = append(l.SearchPaths, p)
		}
	}
	return l
}

func (l *Loader) log() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

// FormatOf maps a file extension to a Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatPlain, nil
	case ".yaml", ".yml":
		return FormatStructured, nil
	}
	return FormatPlain, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Resolve locates ref. Absolute paths are used as given; relative refs must
// stay inside the search paths.
func (l *Loader) Resolve(ref string) (Source, error) {
	src := Source{Ref: ref}
	if filepath.IsAbs(ref) {
		if !exists(ref) {
			return src, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		src.Path = ref
	} else {
		if !filepath.IsLocal(ref) {
			return src, fmt.Errorf("%s: outside the preset directories: %w", ref, ErrNotFound)
		}
		for _, dir := range l.SearchPaths {
			candidate := filepath.Join(dir, ref)
			if exists(candidate) {
				src.Path = candidate
				break
			}
		}
		if src.Path == "" {
			return src, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
	}

	format, err := FormatOf(src.Path)
	if err != nil {
		return src, err
	}
	src.Format = format
	return src, nil
}

// Load returns the preset lines of ref in file order. Every failure is
// logged and yields an empty slice.
func (l *Loader) Load(ref string) []string {
	src, err := l.Resolve(ref)
	if err != nil {
		l.log().Warn("cannot resolve preset file", zap.String("ref", ref), zap.Error(err))
		return nil
	}
	l.log().Info("loading preset file", zap.String("ref", ref), zap.String("path", src.Path))
	lines, err := l.LoadSource(src)
	if err != nil {
		l.log().Warn("cannot load preset file", zap.String("path", src.Path), zap.Error(err))
		return nil
	}
	return lines
}

// LoadSource reads an already resolved source.
func (l *Loader) LoadSource(src Source) ([]string, error) {
	if src.Format == FormatStructured {
		doc, err := l.Document(src.Path)
		if err != nil {
			return nil, err
		}
		return doc.Presets(), nil
	}
	return readPlain(src.Path)
}

// Document parses a structured file.
func (l *Loader) Document(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WildcardLines reads name.txt from the search paths for __name__
// references.
func (l *Loader) WildcardLines(name string) ([]string, bool) {
	for _, dir := range l.SearchPaths {
		path := filepath.Join(dir, name+".txt")
		if !exists(path) {
			continue
		}
		lines, err := readPlain(path)
		if err != nil {
			l.log().Warn("cannot read wildcard file", zap.String("path", path), zap.Error(err))
			return nil, false
		}
		return lines, true
	}
	l.log().Debug("wildcard file not found", zap.String("name", name+".txt"))
	return nil, false
}

// ListFiles returns the names of all preset files in the search paths,
// sorted and without duplicates.
func (l *Loader) ListFiles() []string {
	seen := make(map[string]bool)
	var files []string
	for _, dir := range l.SearchPaths {
		matches, err := doublestar.Glob(os.DirFS(dir), filePattern)
		if err != nil {
			l.log().Warn("cannot list preset directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// readPlain returns trimmed lines, skipping blanks and # comments.
func readPlain(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
