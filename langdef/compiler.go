package langdef

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/spf13/afero"

	"github.com/ava12/langload"
	"github.com/ava12/langload/grammar"
	"github.com/ava12/langload/internal/logutil"
	"github.com/ava12/langload/lexer"
	"github.com/ava12/langload/regex"
	"github.com/ava12/langload/source"
	"github.com/ava12/langload/style"
)

// Resolver finds definition file of a language. Empty string means the language is unknown.
type Resolver interface {
	PathForID(id string) string
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFs sets file system definition files are read from, OS file system is used by default.
func WithFs(fs afero.Fs) Option {
	return func(c *Compiler) {
		c.fs = fs
	}
}

// WithLogger sets logger, slog.Default() is used by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.log = logger
	}
}

// WithThemeStyles sets qualified style ids recognized by the theme, style.DefaultThemeStyles by default.
func WithThemeStyles(ids []string) Option {
	return func(c *Compiler) {
		c.themeStyles = ids
	}
}

// Compiler loads language definition files into shared registries.
// All languages loaded by a Compiler share contexts, styles, and regex macros,
// so a context referenced from several languages is compiled once.
//
// Compiler is not safe for concurrent use.
type Compiler struct {
	fs          afero.Fs
	log         *slog.Logger
	resolver    Resolver
	themeStyles []string
	contexts    *grammar.Registry
	styles      *style.Resolver
	regexes     *regex.Composer
	paths       map[string]string
	required    map[string]bool
	loading     map[string]bool
	mains       []*grammar.Reference
	errs        []error
}

// New creates a compiler. resolver is used to load languages referenced by other languages and may be nil.
func New(resolver Resolver, opts ...Option) *Compiler {
	c := &Compiler{
		fs:          afero.NewOsFs(),
		log:         slog.Default(),
		resolver:    resolver,
		themeStyles: style.DefaultThemeStyles,
		contexts:    grammar.NewRegistry(),
		regexes:     regex.NewComposer(),
		paths:       make(map[string]string),
		required:    make(map[string]bool),
		loading:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.styles = style.NewResolver(c.themeStyles)
	return c
}

// LoadMainContext loads definition file and returns the main context of its language ("lang:lang") marked as in use.
// Returns nil reference if the file cannot be read or defines no main context.
// Returned error joins all grammar errors found during this call, the reference is valid even if error is not nil.
// A file is compiled once, loading it again returns the same reference and no error.
func (c *Compiler) LoadMainContext(path string) (*grammar.Reference, error) {
	lang, e := c.LoadDefinitions(path)
	if lang == "" {
		return nil, e
	}

	result := c.contexts.Known(langload.QualifiedID(lang, lang))
	if result == nil {
		c.log.Warn("language has no main context", "lang", lang, "path", path)
		return nil, e
	}

	result.Context.MarkInUse()
	if !slices.Contains(c.mains, result) {
		c.mains = append(c.mains, result)
	}
	return result, e
}

// LoadDefinitions loads styles and definitions of file and returns its language id.
// Returns empty id if the file cannot be read.
func (c *Compiler) LoadDefinitions(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if lang, has := c.paths[path]; has {
		return lang, nil
	}

	content, e := afero.ReadFile(c.fs, path)
	if e != nil {
		c.log.Warn("cannot read language definition", "path", path, "error", e)
		return "", nil
	}

	c.paths[path] = ""
	first := len(c.errs)
	lang := c.compile(source.New(path, content))
	c.paths[path] = lang
	return lang, errors.Join(c.errs[first:]...)
}

// Require loads definitions of language lang unless it is already loaded, being loaded, or was required before.
func (c *Compiler) Require(lang string) {
	if c.required[lang] || c.loading[lang] {
		return
	}

	c.required[lang] = true
	if c.resolver == nil {
		c.log.Warn("no resolver to load language", "lang", lang)
		return
	}

	path := c.resolver.PathForID(lang)
	if path == "" {
		c.log.Warn("language not found", "lang", lang)
		return
	}

	c.LoadDefinitions(path)
}

// Context returns live reference of qualified context id or nil.
func (c *Compiler) Context(id string) *grammar.Reference {
	return c.contexts.Known(id)
}

// Original returns original reference of qualified context id or nil.
func (c *Compiler) Original(id string) *grammar.Reference {
	return c.contexts.Original(id)
}

// Style returns effective style of qualified style id.
func (c *Compiler) Style(id string) (string, bool) {
	return c.styles.Resolve(id)
}

// Registry returns the shared context registry.
func (c *Compiler) Registry() *grammar.Registry {
	return c.contexts
}

// Errors returns all grammar errors found so far.
func (c *Compiler) Errors() []error {
	return c.errs
}

// Close releases contexts not reachable from main contexts returned by LoadMainContext
// and returns the number of released contexts.
// Reachability is checked anew, so contexts a later load added to an in-use graph are kept.
func (c *Compiler) Close() int {
	for _, main := range c.mains {
		main.Context.MarkInUse()
	}
	return c.contexts.Release()
}

func (c *Compiler) fail(t *lexer.Token, e error) {
	if e == nil {
		return
	}

	e = posError(t, e)
	c.log.Warn("grammar error", "error", e)
	c.errs = append(c.errs, e)
}

type langState struct {
	id string
	re *regex.Language
}

func (c *Compiler) compile(src *source.Source) string {
	c.log.Debug("loading language definition", "path", src.Name())
	l := lexer.New(src)
	st := &langState{re: c.regexes.Language("")}

	for t := l.Next(); !t.IsEof(); t = l.Next() {
		if t.Type() != lexer.StartToken {
			continue
		}

		switch t.Name() {
		case "language":
			if st.id != "" {
				delete(c.loading, st.id)
			}
			st.id = t.Attrs().Get("id")
			st.re = c.regexes.Seed(st.id)
			c.loading[st.id] = true
			c.required[st.id] = true

		case "styles":
			c.parseStyles(l, st)

		case "default-regex-options":
			st.re.Defaults = regex.ParseOptions(st.re.Defaults, t.Attrs())
			l.Skip()

		case "keyword-char-class":
			st.re.SetWordCharClass(l.ReadText())

		case "definitions":
			c.parseDefinitions(l, st)
		}
	}

	if e := l.Err(); e != nil {
		c.log.Warn("malformed language definition", "path", src.Name(), "error", e)
	}
	delete(c.loading, st.id)
	return st.id
}

// eachChild calls f for every child element of the element whose start token was just fetched,
// then consumes the end tag. f must consume the child element including its end tag.
func eachChild(l *lexer.Lexer, f func(t *lexer.Token)) {
	for {
		t := l.Next()
		switch t.Type() {
		case lexer.EofToken, lexer.EndToken:
			return
		case lexer.StartToken:
			f(t)
		}
	}
}

func (c *Compiler) parseStyles(l *lexer.Lexer, st *langState) {
	eachChild(l, func(t *lexer.Token) {
		if t.Name() == "style" {
			c.parseStyle(t, st)
		}
		l.Skip()
	})
}

func (c *Compiler) parseStyle(t *lexer.Token, st *langState) {
	attrs := t.Attrs()
	id, has := attrs.Value("id")
	if !has {
		c.fail(t, missingAttrError(t, "id"))
		return
	}

	mapTo, hasMapTo := attrs.Value("map-to")
	mapped := c.styles.Register(st.id, id, mapTo, hasMapTo, c.Require)
	logutil.Trace(c.log, "style registered", "id", langload.QualifiedID(st.id, id), "mapped", mapped)
}

func (c *Compiler) parseDefinitions(l *lexer.Lexer, st *langState) {
	var handle func(t *lexer.Token)
	handle = func(t *lexer.Token) {
		switch t.Name() {
		case "define-regex":
			c.parseDefineRegex(l, t, st)
		case "context":
			c.parseContext(l, t, st, nil)
		case "replace":
			c.parseReplace(t, st)
			l.Skip()
		default:
			eachChild(l, handle)
		}
	}
	eachChild(l, handle)
}

func (c *Compiler) parseDefineRegex(l *lexer.Lexer, t *lexer.Token, st *langState) {
	id, has := t.Attrs().Value("id")
	opts := regex.ParseOptions(st.re.Defaults, t.Attrs())
	text := l.ReadText()
	if !has {
		c.fail(t, missingAttrError(t, "id"))
		return
	}

	c.regexes.Define(id, text, opts)
}

func (c *Compiler) parseReplace(t *lexer.Token, st *langState) {
	id := langload.Qualify(t.Attrs().Get("id"), st.id)
	ref := langload.Qualify(t.Attrs().Get("ref"), st.id)
	dst, src := c.contexts.Known(id), c.contexts.Known(ref)
	if dst == nil || src == nil {
		logutil.Trace(c.log, "replace ignored", "id", id, "ref", ref)
		return
	}

	dst.Context.CopyFrom(src.Context)
	dst.StyleID = src.StyleID
}

// LoadMetadata reads metadata of definition file.
func (c *Compiler) LoadMetadata(path string) Metadata {
	result, e := ReadMetadata(c.fs, path)
	if e != nil {
		c.log.Warn("malformed language definition", "path", path, "error", e)
	}
	return result
}
