// Package levels provides level loading for the shunting puzzle.
// This package depends on core but core does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting/levels/formats"
)

//go:embed data/*.yaml
var embedded embed.FS

// fileID matches level_NN files so an id can be inferred when the file omits it.
var fileID = regexp.MustCompile(`^level_0*(\d+)\.`)

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root string
	// DefaultCapacity applies to files without a capacity.
	DefaultCapacity int

	fsys   fs.FS
	logger *log.Logger
}

// NewLoader creates a loader over a directory on disk.
// A nil logger discards warnings.
func NewLoader(root string, logger *log.Logger) *Loader {
	return newLoader(root, os.DirFS(root), logger)
}

// NewFSLoader creates a loader over an arbitrary filesystem.
func NewFSLoader(fsys fs.FS, logger *log.Logger) *Loader {
	return newLoader(".", fsys, logger)
}

func newLoader(root string, fsys fs.FS, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{
		Root:            root,
		DefaultCapacity: core.DefaultCapacity,
		fsys:            fsys,
		logger:          logger,
	}
}

// LoadAll recursively scans and loads all level files.
// Unreadable or invalid files are logged and skipped.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]core.Level, error) {
	var levels []core.Level

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			l.logger.Warn("skipping level file", "path", path.Join(l.Root, p), "error", err)
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	slices.SortStableFunc(levels, func(a, b core.Level) int {
		return a.ID - b.ID
	})

	return levels, nil
}

// LoadFile loads and validates a single level file, relative to the root.
func (l *Loader) LoadFile(name string) (core.Level, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return core.Level{}, fmt.Errorf("reading file %s: %w", name, err)
	}

	level, err := parseByExtension(data, strings.ToLower(path.Ext(name)), l.DefaultCapacity)
	if err != nil {
		return core.Level{}, fmt.Errorf("parsing file %s: %w", name, err)
	}

	if level.ID == 0 {
		level.ID = idFromName(path.Base(name))
	}

	if err := level.Validate(); err != nil {
		return core.Level{}, fmt.Errorf("invalid level %s: %w", name, err)
	}

	return level, nil
}

// Catalog loads every level into a catalog. Later files with a duplicate id
// replace earlier ones.
func (l *Loader) Catalog() (*core.Catalog, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	catalog := core.NewCatalog()
	for _, level := range levels {
		if catalog.Has(level.ID) {
			l.logger.Warn("duplicate level id", "id", level.ID)
		}
		catalog.Add(level)
	}
	return catalog, nil
}

// Default returns the built-in level pack.
func Default() *core.Catalog {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return core.NewCatalog()
	}

	catalog, err := NewFSLoader(sub, nil).Catalog()
	if err != nil {
		return core.NewCatalog()
	}
	return catalog
}

// Open loads levels from dir, or the built-in pack when dir is empty.
// A directory without any usable level falls back to the built-in pack.
func Open(dir string, defaultCapacity int, logger *log.Logger) (*core.Catalog, error) {
	if dir == "" {
		return Default(), nil
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("levels: cannot open %s: %w", dir, err)
	}

	loader := NewLoader(dir, logger)
	if defaultCapacity > 0 {
		loader.DefaultCapacity = defaultCapacity
	}

	catalog, err := loader.Catalog()
	if err != nil {
		return nil, fmt.Errorf("levels: cannot load %s: %w", dir, err)
	}

	if catalog.Len() == 0 {
		loader.logger.Warn("no levels found, using built-in pack", "dir", dir)
		return Default(), nil
	}
	return catalog, nil
}

// idFromName extracts NN from level_NN.ext, or returns 0.
func idFromName(name string) int {
	m := fileID.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	return slices.Contains(formats.FormatExtensions(), ext)
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string, defaultCapacity int) (core.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data, defaultCapacity)
	case ".json":
		return formats.ParseJSON(data, defaultCapacity)
	default:
		return core.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
