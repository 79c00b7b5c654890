package langload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pos struct{}

func (pos) SourceName() string { return "c.lang" }
func (pos) Line() int          { return 3 }
func (pos) Col() int           { return 7 }

func TestFormatError(t *testing.T) {
	e := FormatError(GrammarErrors, "unknown %s %q", "context", "x")
	assert.Equal(t, `unknown context "x"`, e.Error())
	assert.Equal(t, GrammarErrors, e.Code)

	e = FormatErrorPos(pos{}, RegexErrors, "broken")
	assert.Equal(t, "broken in c.lang at line 3 col 7", e.Error())
	assert.Equal(t, "c.lang", e.SourceName)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 7, e.Col)

	e = FormatErrorPos(nil, StreamErrors, "no position")
	assert.Equal(t, "no position", e.Error())
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "c:comment", QualifiedID("c", "comment"))
	assert.Equal(t, "c:comment", Qualify("comment", "c"))
	assert.Equal(t, "def:comment", Qualify("def:comment", "c"))

	ns, qualified := Namespace("def:comment")
	assert.True(t, qualified)
	assert.Equal(t, "def", ns)
	ns, qualified = Namespace("comment")
	assert.False(t, qualified)
	assert.Equal(t, "comment", ns)
}
