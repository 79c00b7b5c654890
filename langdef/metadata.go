package langdef

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/ava12/langload/lexer"
	"github.com/ava12/langload/source"
)

// Metadata describes a language for language pickers and file type detection.
type Metadata struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Section string `json:"section,omitempty" yaml:"section,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Hidden  bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	// MimeTypes and Globs come from mimetypes and globs properties.
	MimeTypes []string `json:"mimeTypes,omitempty" yaml:"mime-types,omitempty"`
	Globs     []string `json:"globs,omitempty" yaml:"globs,omitempty"`
	// Properties holds every metadata property, e.g. line-comment, block-comment-start, block-comment-end.
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	Path       string            `json:"path" yaml:"path"`
}

// Property returns metadata property value or empty string.
func (m Metadata) Property(name string) string {
	return m.Properties[name]
}

// ReadMetadata reads metadata of definition file. Unreadable file yields metadata with only Path set.
func ReadMetadata(fs afero.Fs, path string) (Metadata, error) {
	content, e := afero.ReadFile(fs, path)
	if e != nil {
		return Metadata{Path: path}, nil
	}

	return ParseMetadata(source.New(path, content))
}

// ParseMetadata extracts language attributes and metadata properties. Reading stops after the metadata element.
// Returns collected metadata and lexer error if the document is malformed.
func ParseMetadata(src *source.Source) (Metadata, error) {
	result := Metadata{Path: src.Name(), Properties: make(map[string]string)}
	l := lexer.New(src)
	for t := l.Next(); !t.IsEof(); t = l.Next() {
		if t.Type() != lexer.StartToken {
			continue
		}

		switch t.Name() {
		case "language":
			attrs := t.Attrs()
			result.ID = attrs.Get("id")
			result.Name = translatable(attrs, "name")
			result.Section = translatable(attrs, "section")
			result.Version = attrs.Get("version")
			result.Hidden = attrs.Get("hidden") == "true"

		case "metadata":
			eachChild(l, func(pt *lexer.Token) {
				if pt.Name() != "property" {
					l.Skip()
					return
				}

				name := pt.Attrs().Get("name")
				value := strings.TrimSpace(l.ReadText())
				result.Properties[name] = value
				switch name {
				case "mimetypes":
					result.MimeTypes = splitList(value)
				case "globs":
					result.Globs = splitList(value)
				}
			})
			return result, l.Err()
		}
	}

	return result, l.Err()
}

// translatable prefers _name over name.
func translatable(attrs lexer.Attrs, name string) string {
	if v, has := attrs.Value("_" + name); has {
		return v
	}
	return attrs.Get(name)
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
