package langdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/langload"
	"github.com/ava12/langload/grammar"
	"github.com/ava12/langload/internal/logutil"
	"github.com/ava12/langload/internal/test"
	"github.com/ava12/langload/regex"
)

const cLang = `<?xml version="1.0" encoding="UTF-8"?>
<language id="c" _name="C" version="2.0" section="Source">
  <metadata>
    <property name="mimetypes">text/x-c;text/x-csrc</property>
    <property name="globs">*.c</property>
  </metadata>
  <styles>
    <style id="comment" map-to="def:comment"/>
    <style id="string" map-to="def:string"/>
    <style id="keyword" map-to="def:keyword"/>
    <style id="doc" map-to="comment"/>
  </styles>
  <definitions>
    <define-regex id="num">[0-9]+</define-regex>
    <context id="c">
      <include>
        <context ref="string"/>
        <context ref="comment"/>
        <context id="number" style-ref="def:decimal">
          <match>\%{num}\.\%{num}</match>
        </context>
        <context id="keywords" style-ref="keyword">
          <keyword>if</keyword>
          <keyword>else</keyword>
        </context>
      </include>
    </context>
    <context id="string" style-ref="string" end-at-line-end="true">
      <start>"</start>
      <end>"</end>
    </context>
    <context id="comment" style-ref="comment">
      <start>/\*</start>
      <end>\*/</end>
    </context>
    <context id="unused">
      <match>unused</match>
    </context>
  </definitions>
</language>
`

func newCompiler(t *testing.T, files map[string]string, ids map[string]string) (*Compiler, *test.Resolver) {
	r := test.NewResolver(ids)
	c := New(r, WithFs(test.Fs(t, files)), WithLogger(logutil.Discard()))
	return c, r
}

func loadMain(t *testing.T, c *Compiler, path string) *grammar.Reference {
	ref, e := c.LoadMainContext(path)
	require.NoError(t, e)
	require.NotNil(t, ref)
	return ref
}

func TestMainContext(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/c.lang": cLang}, nil)
	main := loadMain(t, c, "/c.lang")

	assert.Same(t, c.Context("c:c"), main)
	assert.True(t, main.Context.InUse())
	require.Equal(t, grammar.Container, main.Context.Kind())
	require.Len(t, main.Context.Includes, 4)

	str := main.Context.Includes[0]
	assert.Same(t, c.Context("c:string"), str)
	assert.Equal(t, grammar.Container, str.Context.Kind())
	assert.Equal(t, "c:string", str.StyleID)
	assert.True(t, str.Context.Flags.Has(grammar.EndAtLineEnd))
	assert.True(t, str.Context.Start.MatchString(`"`))

	num := main.Context.Includes[2]
	assert.Equal(t, grammar.Simple, num.Context.Kind())
	assert.Equal(t, "def:decimal", num.StyleID)
	assert.True(t, num.Context.Match.MatchString("12.34"))
	assert.False(t, num.Context.Match.MatchString("12a34"))

	kws := main.Context.Includes[3]
	require.Len(t, kws.Context.Includes, 2)
	kw := kws.Context.Includes[0]
	assert.Equal(t, grammar.Keyword, kw.Context.Kind())
	assert.Equal(t, "c:keyword", kw.StyleID)
	assert.Equal(t, `\bif\b`, kw.Context.Keyword.Pattern)

	for id, want := range map[string]string{
		"c:comment": "def:comment",
		"c:string":  "def:string",
		"c:doc":     "def:comment",
	} {
		got, has := c.Style(id)
		assert.True(t, has, id)
		assert.Equal(t, want, got, id)
	}
}

func TestCompilationIsIdempotent(t *testing.T) {
	c, r := newCompiler(t, map[string]string{"/c.lang": cLang}, map[string]string{"c": "/c.lang"})
	first := loadMain(t, c, "/c.lang")
	count := c.Registry().Len()

	second := loadMain(t, c, "/c.lang")
	assert.Same(t, first, second)
	assert.Same(t, first.Context.Includes[0], second.Context.Includes[0])
	assert.Equal(t, count, c.Registry().Len())

	c.Require("c")
	assert.Zero(t, r.Calls["c"], "loaded language must not be resolved again")
}

func TestForwardReferenceIsFilledIn(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/c.lang": cLang}, nil)
	main := loadMain(t, c, "/c.lang")

	comment := main.Context.Includes[1]
	assert.Same(t, c.Context("c:comment"), comment)
	assert.Equal(t, grammar.Container, comment.Context.Kind())
	assert.Equal(t, `/\*`, comment.Context.Start.Pattern)
	assert.Equal(t, "c:comment", comment.StyleID)
}

const replaceLang = `<language id="r">
  <styles>
    <style id="comment" map-to="def:comment"/>
    <style id="doc" map-to="def:doc-comment"/>
  </styles>
  <definitions>
    <context id="comment" style-ref="comment">
      <start>/\*</start>
      <end>\*/</end>
    </context>
    <context id="doc-comment" style-ref="doc">
      <start>/\*\*</start>
      <end>\*/</end>
    </context>
    <replace id="comment" ref="doc-comment"/>
    <replace id="comment" ref="missing"/>
    <replace id="missing" ref="comment"/>
    <context id="r">
      <include>
        <context ref="comment"/>
        <context ref="comment" original="true"/>
        <context ref="comment" ignore-style="true"/>
      </include>
    </context>
  </definitions>
</language>
`

func TestOriginalAndLiveDiverge(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/r.lang": replaceLang}, nil)
	main := loadMain(t, c, "/r.lang")

	live := c.Context("r:comment")
	orig := c.Original("r:comment")
	assert.Equal(t, `/\*\*`, live.Context.Start.Pattern)
	assert.Equal(t, "r:doc", live.StyleID)
	assert.Equal(t, `/\*`, orig.Context.Start.Pattern)
	assert.Equal(t, "r:comment", orig.StyleID)
	assert.Nil(t, c.Context("r:missing"))

	incs := main.Context.Includes
	require.Len(t, incs, 3)
	assert.Same(t, live.Context, incs[0].Context)
	assert.Equal(t, "r:doc", incs[0].StyleID)
	assert.Same(t, orig.Context, incs[1].Context)
	assert.Equal(t, "r:comment", incs[1].StyleID)
	assert.Same(t, live.Context, incs[2].Context)
	assert.Empty(t, incs[2].StyleID)
}

const baseLang = `<language id="base">
  <styles>
    <style id="keyword" map-to="def:keyword"/>
  </styles>
  <definitions>
    <define-regex id="word">[a-z]+</define-regex>
    <context id="num" style-ref="def:number">
      <match>[0-9]+</match>
    </context>
  </definitions>
</language>
`

const userLang = `<language id="user">
  <styles>
    <style id="kw" map-to="base:keyword"/>
  </styles>
  <definitions>
    <context id="user" ref="base:num"/>
    <context id="words">
      <match>\%{word}</match>
    </context>
  </definitions>
</language>
`

func TestCrossFileReference(t *testing.T) {
	c, r := newCompiler(t,
		map[string]string{"/base.lang": baseLang, "/user.lang": userLang},
		map[string]string{"base": "/base.lang"},
	)
	main := loadMain(t, c, "/user.lang")

	assert.Equal(t, 1, r.Calls["base"])
	num := c.Context("base:num")
	require.NotNil(t, num)
	assert.Same(t, num.Context, main.Context)
	assert.Equal(t, "def:number", main.StyleID)
	assert.True(t, main.Context.Match.MatchString("42"))

	kw, _ := c.Style("user:kw")
	assert.Equal(t, "def:keyword", kw)

	words := c.Context("user:words")
	assert.True(t, words.Context.Match.MatchString("abc"), "macros are shared between languages")
}

func TestUnresolvedLanguage(t *testing.T) {
	c, r := newCompiler(t, map[string]string{"/user.lang": userLang}, nil)
	main, e := c.LoadMainContext("/user.lang")
	require.NoError(t, e)
	require.NotNil(t, main)

	assert.Equal(t, 1, r.Calls["base"])
	assert.Equal(t, grammar.Undefined, main.Context.Kind())
	assert.Same(t, main, c.Context("base:num"))
}

const cycleA = `<language id="a">
  <definitions>
    <context id="a">
      <include>
        <context ref="b:x"/>
      </include>
    </context>
    <context id="y">
      <match>y</match>
    </context>
  </definitions>
</language>
`

const cycleB = `<language id="b">
  <definitions>
    <context id="x">
      <include>
        <context ref="a:y"/>
      </include>
    </context>
  </definitions>
</language>
`

func TestCircularReferencesTerminate(t *testing.T) {
	c, r := newCompiler(t,
		map[string]string{"/a.lang": cycleA, "/b.lang": cycleB},
		map[string]string{"a": "/a.lang", "b": "/b.lang"},
	)
	main := loadMain(t, c, "/a.lang")

	assert.Zero(t, r.Calls["a"])
	assert.Equal(t, 1, r.Calls["b"])

	x := main.Context.Includes[0]
	assert.Same(t, c.Context("b:x").Context, x.Context)
	require.Len(t, x.Context.Includes, 1)
	y := x.Context.Includes[0]
	assert.Same(t, c.Context("a:y"), y)
	assert.Equal(t, grammar.Simple, y.Context.Kind())
	assert.True(t, y.Context.InUse())
}

const conflictLang = `<language id="k">
  <definitions>
    <context id="k">
      <start>a</start>
      <match>b</match>
      <end>c</end>
    </context>
    <context id="sub" sub-pattern="1">
      <include>
        <context><match>x</match></context>
      </include>
    </context>
    <context id="bad">
      <match>(foo</match>
    </context>
    <define-regex>nothing</define-regex>
  </definitions>
</language>
`

func TestErrorsAreCollected(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/k.lang": conflictLang}, nil)
	main, e := c.LoadMainContext("/k.lang")
	require.NotNil(t, main)
	require.Error(t, e)

	assert.Equal(t,
		[]int{grammar.KindConflictError, MalformedGrammarError, regex.InvalidRegexError, MissingAttributeError},
		test.ErrorCodes(e),
	)
	assert.Len(t, c.Errors(), 4)

	var le *langload.Error
	require.ErrorAs(t, e, &le)
	assert.Equal(t, "/k.lang", le.SourceName)
	assert.Equal(t, 5, le.Line)

	assert.Equal(t, grammar.Container, main.Context.Kind())
	assert.Equal(t, "c", main.Context.End.Pattern)
	assert.Nil(t, main.Context.Match)
	assert.Empty(t, c.Context("k:sub").Context.Includes)

	bad := c.Context("k:bad").Context.Match
	require.NotNil(t, bad)
	assert.False(t, bad.Valid())

	_, e = c.LoadMainContext("/k.lang")
	assert.NoError(t, e, "errors are reported once")
}

const optionsLang = `<language id="o">
  <default-regex-options case-sensitive="false"/>
  <keyword-char-class>[A-Za-z_]</keyword-char-class>
  <definitions>
    <context id="o" once-only="true">
      <include>
        <context id="kw">
          <keyword>foo</keyword>
          <keyword case-sensitive="true">Bar</keyword>
        </context>
        <context id="ext">
          <match extended="true">a b # comment</match>
        </context>
        <context id="lit">
          <match>a b # c</match>
        </context>
      </include>
    </context>
    <context id="delimited" once-only="true">
      <start>\(</start>
      <end>\)</end>
      <include>
        <context id="inner"><match>x</match></context>
      </include>
    </context>
  </definitions>
</language>
`

func TestRegexOptions(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/o.lang": optionsLang}, nil)
	loadMain(t, c, "/o.lang")

	kws := c.Context("o:kw").Context.Includes
	require.Len(t, kws, 2)
	foo, bar := kws[0].Context.Keyword, kws[1].Context.Keyword

	match, index, found := foo.FindString("foo bar")
	assert.True(t, found)
	assert.Equal(t, "foo", match)
	assert.Equal(t, 0, index)
	assert.False(t, foo.MatchString("xfooy"))
	assert.True(t, foo.MatchString("FOO"))
	assert.True(t, bar.MatchString("Bar"))
	assert.False(t, bar.MatchString("bar"))

	ext := c.Context("o:ext").Context.Match
	assert.True(t, ext.MatchString("ab"))
	assert.False(t, ext.MatchString("a b"))
	lit := c.Context("o:lit").Context.Match
	assert.True(t, lit.MatchString("A B # C"))
	assert.False(t, lit.MatchString("ab"))
}

func TestOnceOnlyPassesToChildrenOfGroups(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/o.lang": optionsLang}, nil)
	loadMain(t, c, "/o.lang")

	assert.True(t, c.Context("o:kw").Context.Flags.Has(grammar.OnceOnly))
	assert.True(t, c.Context("o:ext").Context.Flags.Has(grammar.OnceOnly))
	assert.True(t, c.Context("o:delimited").Context.Flags.Has(grammar.OnceOnly))
	assert.False(t, c.Context("o:inner").Context.Flags.Has(grammar.OnceOnly))
}

func TestMissingFile(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{}, nil)
	ref, e := c.LoadMainContext("/missing.lang")
	assert.Nil(t, ref)
	assert.NoError(t, e)

	ref, e = c.LoadMainContext("")
	assert.Nil(t, ref)
	assert.NoError(t, e)
}

func TestMalformedDocumentKeepsParsedContexts(t *testing.T) {
	src := `<language id="t"><definitions><context id="t"><match>a</match></context><context id="u"><match>`
	c, _ := newCompiler(t, map[string]string{"/t.lang": src}, nil)
	main, e := c.LoadMainContext("/t.lang")
	assert.NoError(t, e)
	require.NotNil(t, main)
	assert.Equal(t, grammar.Simple, main.Context.Kind())
	assert.NotNil(t, c.Context("t:u"))
}

func TestCloseKeepsContextsInUse(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/c.lang": cLang}, nil)
	main := loadMain(t, c, "/c.lang")
	unused := c.Context("c:unused")
	require.Equal(t, grammar.Simple, unused.Context.Kind())

	assert.Positive(t, c.Close())
	assert.Equal(t, grammar.Container, main.Context.Kind())
	assert.Len(t, main.Context.Includes, 4)
	assert.Equal(t, grammar.Container, c.Context("c:string").Context.Kind())
	assert.Equal(t, grammar.Undefined, unused.Context.Kind())
	assert.Equal(t, grammar.Undefined, c.Original("c:c").Context.Kind())
}

const affixLang = `<language id="x">
  <definitions>
    <context id="x">
      <include>
        <context id="anchored">
          <keyword>zz</keyword>
          <prefix>^</prefix>
          <suffix>$</suffix>
          <keyword>ab</keyword>
        </context>
        <context id="plain">
          <keyword>cd</keyword>
        </context>
      </include>
    </context>
  </definitions>
</language>
`

func TestKeywordPrefixAndSuffix(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/x.lang": affixLang}, nil)
	loadMain(t, c, "/x.lang")

	anchored := c.Context("x:anchored").Context.Includes
	require.Len(t, anchored, 2)
	assert.Equal(t, `\bzz\b`, anchored[0].Context.Keyword.Pattern)
	ab := anchored[1].Context.Keyword
	assert.Equal(t, "^ab$", ab.Pattern)
	assert.True(t, ab.MatchString("ab"))
	assert.False(t, ab.MatchString("xab"))

	plain := c.Context("x:plain").Context.Includes
	require.Len(t, plain, 1)
	assert.Equal(t, `\bcd\b`, plain[0].Context.Keyword.Pattern)
}

const subPatternLang = `<language id="s">
  <definitions>
    <context id="s">
      <include>
        <context id="pair">
          <match>(a)(?&lt;n&gt;b)</match>
          <include>
            <context sub-pattern="1" style-ref="def:keyword"/>
            <context sub-pattern="n" style-ref="def:type"/>
          </include>
        </context>
      </include>
    </context>
  </definitions>
</language>
`

func TestIncludesOfSimpleContextAreSubPatterns(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/s.lang": subPatternLang}, nil)
	loadMain(t, c, "/s.lang")

	pair := c.Context("s:pair").Context
	assert.Equal(t, grammar.Simple, pair.Kind())
	assert.True(t, pair.Match.MatchString("ab"))
	require.Len(t, pair.Includes, 2)

	for i, want := range []struct{ group, style string }{{"1", "def:keyword"}, {"n", "def:type"}} {
		sub := pair.Includes[i]
		assert.Equal(t, grammar.SubPattern, sub.Context.Kind())
		assert.Equal(t, want.group, sub.Context.SubPattern.Group)
		assert.Empty(t, sub.Context.SubPattern.Where)
		assert.Equal(t, want.style, sub.StyleID)
	}
	assert.Empty(t, c.Errors())
}

const appLang = `<language id="app">
  <definitions>
    <context id="app">
      <include>
        <context ref="lib:block"/>
      </include>
    </context>
  </definitions>
</language>
`

const libLang = `<language id="lib">
  <definitions>
    <context id="block">
      <start>\{</start>
      <end>\}</end>
      <include>
        <context id="word"><match>[a-z]+</match></context>
      </include>
    </context>
  </definitions>
</language>
`

func TestCloseKeepsContextsAddedToGraphInUse(t *testing.T) {
	c, _ := newCompiler(t, map[string]string{"/app.lang": appLang, "/lib.lang": libLang}, nil)
	main := loadMain(t, c, "/app.lang")
	require.Len(t, main.Context.Includes, 1)
	block := main.Context.Includes[0]
	assert.Equal(t, grammar.Undefined, block.Context.Kind())

	lang, e := c.LoadDefinitions("/lib.lang")
	require.NoError(t, e)
	require.Equal(t, "lib", lang)
	assert.Same(t, block, c.Context("lib:block"))
	require.Len(t, block.Context.Includes, 1)

	c.Close()
	assert.Equal(t, grammar.Container, block.Context.Kind())
	require.Len(t, block.Context.Includes, 1)
	word := c.Context("lib:word")
	assert.Same(t, word, block.Context.Includes[0])
	assert.Equal(t, grammar.Simple, word.Context.Kind())
}
