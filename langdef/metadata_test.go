package langdef

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/langload/internal/test"
	"github.com/ava12/langload/lexer"
	"github.com/ava12/langload/source"
)

const metaLang = `<?xml version="1.0"?>
<!-- comment -->
<language id="py" name="Python" _name="Python 3" _section="Script" version="2.0" hidden="true">
  <metadata>
    <property name="mimetypes">text/x-python; application/x-python;;</property>
    <property name="globs">*.py;*.pyw</property>
    <property name="line-comment">#</property>
    <unknown/>
  </metadata>
  <metadata>
    <property name="globs">*.ignored</property>
  </metadata>
</language>
`

func TestParseMetadata(t *testing.T) {
	got, e := ParseMetadata(source.New("/py.lang", []byte(metaLang)))
	require.NoError(t, e)

	want := Metadata{
		ID:         "py",
		Name:       "Python 3",
		Section:    "Script",
		Version:    "2.0",
		Hidden:     true,
		MimeTypes:  []string{"text/x-python", "application/x-python"},
		Globs:      []string{"*.py", "*.pyw"},
		Properties: map[string]string{"mimetypes": "text/x-python; application/x-python;;", "globs": "*.py;*.pyw", "line-comment": "#"},
		Path:       "/py.lang",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "#", got.Property("line-comment"))
	assert.Empty(t, got.Property("block-comment-start"))
}

func TestReadMetadata(t *testing.T) {
	fs := test.Fs(t, map[string]string{"/c.lang": cLang, "/bad.lang": `<language id="bad" name="Bad"><metadata><property`})

	m, e := ReadMetadata(fs, "/c.lang")
	require.NoError(t, e)
	assert.Equal(t, "c", m.ID)
	assert.Equal(t, "C", m.Name)
	assert.Equal(t, []string{"text/x-c", "text/x-csrc"}, m.MimeTypes)

	m, e = ReadMetadata(fs, "/missing.lang")
	assert.NoError(t, e)
	assert.Equal(t, Metadata{Path: "/missing.lang"}, m)

	m, e = ReadMetadata(fs, "/bad.lang")
	test.ExpectErrorCode(t, lexer.MalformedXmlError, e)
	assert.Equal(t, "bad", m.ID)
	assert.Equal(t, "Bad", m.Name)
}

func TestCompilerLoadMetadata(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/c.lang": cLang}, nil)
	m := c.LoadMetadata("/c.lang")
	assert.Equal(t, "Source", m.Section)
	assert.Equal(t, []string{"*.c"}, m.Globs)
}
