// Package loader is the entry point for highlighters: it finds a language definition by id or MIME type
// and returns the compiled main context.
package loader

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/ava12/langload/grammar"
	"github.com/ava12/langload/langdef"
)

// Resolver maps language ids and MIME types to definition file paths.
// Empty string means nothing found. catalog.Catalog implements Resolver.
type Resolver interface {
	PathForID(id string) string
	PathForMimeType(mimeType, filename string) string
}

type config struct {
	fs          afero.Fs
	log         *slog.Logger
	themeStyles []string
}

// Option configures a Loader.
type Option func(*config)

// WithFs sets file system definition files are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *config) {
		c.fs = fs
	}
}

// WithLogger sets logger, slog.Default() is used by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.log = logger
	}
}

// WithThemeStyles sets qualified style ids recognized by the theme.
func WithThemeStyles(ids []string) Option {
	return func(c *config) {
		c.themeStyles = ids
	}
}

// Loader compiles languages into a single shared set of registries.
// Loader is not safe for concurrent use.
type Loader struct {
	resolver Resolver
	compiler *langdef.Compiler
	log      *slog.Logger
}

// New creates a loader using resolver to find definition files; resolver may be nil.
func New(resolver Resolver, opts ...Option) *Loader {
	cfg := config{log: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	copts := []langdef.Option{langdef.WithLogger(cfg.log)}
	if cfg.fs != nil {
		copts = append(copts, langdef.WithFs(cfg.fs))
	}
	if cfg.themeStyles != nil {
		copts = append(copts, langdef.WithThemeStyles(cfg.themeStyles))
	}

	var cr langdef.Resolver
	if resolver != nil {
		cr = resolver
	}
	return &Loader{resolver: resolver, compiler: langdef.New(cr, copts...), log: cfg.log}
}

// LoadMainContextByID loads main context of language id.
func (l *Loader) LoadMainContextByID(id string) (*grammar.Reference, error) {
	l.log.Debug("loading language", "id", id)
	if l.resolver == nil {
		return nil, nil
	}
	return l.compiler.LoadMainContext(l.resolver.PathForID(id))
}

// LoadMainContextByMimeType loads main context of the language handling MIME type, filename may help to choose one.
func (l *Loader) LoadMainContextByMimeType(mimeType, filename string) (*grammar.Reference, error) {
	l.log.Debug("loading language", "mime", mimeType, "filename", filename)
	if l.resolver == nil {
		return nil, nil
	}
	return l.compiler.LoadMainContext(l.resolver.PathForMimeType(mimeType, filename))
}

// LoadMainContext loads main context from definition file.
// See langdef.Compiler.LoadMainContext for details.
func (l *Loader) LoadMainContext(path string) (*grammar.Reference, error) {
	return l.compiler.LoadMainContext(path)
}

// LoadMetadata reads language metadata from definition file.
func (l *Loader) LoadMetadata(path string) langdef.Metadata {
	return l.compiler.LoadMetadata(path)
}

// Context returns live reference of qualified context id or nil.
func (l *Loader) Context(id string) *grammar.Reference {
	return l.compiler.Context(id)
}

// Original returns original reference of qualified context id or nil.
func (l *Loader) Original(id string) *grammar.Reference {
	return l.compiler.Original(id)
}

// Style returns effective style of qualified style id.
func (l *Loader) Style(id string) (string, bool) {
	return l.compiler.Style(id)
}

// Snapshot returns serializable view of the graph reachable from ref with effective style ids.
func (l *Loader) Snapshot(ref *grammar.Reference) *grammar.Snapshot {
	return grammar.NewSnapshot(ref, l.compiler.Registry(), func(id string) string {
		if mapped, has := l.compiler.Style(id); has {
			return mapped
		}
		return id
	})
}

// Errors returns all grammar errors found so far.
func (l *Loader) Errors() []error {
	return l.compiler.Errors()
}

// Close releases contexts not in use. Main contexts returned by Load functions and everything
// reachable from them stay intact.
func (l *Loader) Close() {
	released := l.compiler.Close()
	l.log.Debug("loader closed", "released", released)
}
