package langdef

import (
	"github.com/ava12/langload"
	"github.com/ava12/langload/grammar"
	"github.com/ava12/langload/internal/logutil"
	"github.com/ava12/langload/lexer"
	"github.com/ava12/langload/regex"
)

// parseContext builds a context from the element whose start token t was just fetched and consumes the element.
// extra attributes are inherited from the including context, attributes of the element take precedence.
func (c *Compiler) parseContext(l *lexer.Lexer, t *lexer.Token, st *langState, extra lexer.Attrs) *grammar.Reference {
	attrs := t.Attrs().With(extra...)
	id := attrs.Get("id")
	key := ""
	live, orig := grammar.NewReference(), grammar.NewReference()
	if id != "" {
		key = langload.QualifiedID(st.id, id)
		if r := c.contexts.Known(key); r != nil {
			live = r
		}
		if r := c.contexts.Original(key); r != nil {
			orig = r
		}
	}

	if refID, has := attrs.Value("ref"); has {
		c.resolveRef(live, orig, refID, attrs.Has("original"), st)
	}
	if key != "" {
		c.contexts.Register(key, live, orig)
	}

	styleID := live.StyleID
	if styleRef, has := attrs.Value("style-ref"); has {
		if lang, qualified := langload.Namespace(styleRef); qualified && !c.styles.Known(styleRef) {
			c.Require(lang)
		}
		styleID = langload.Qualify(styleRef, st.id)
	}
	if attrs.Has("ignore-style") {
		styleID = ""
	}
	live.StyleID = styleID

	if attrs.Has("sub-pattern") {
		c.fail(t, live.Context.Init(grammar.SubPattern, attrs))
	}

	prefix, suffix := regex.LeftBoundaryToken, regex.RightBoundaryToken
	eachChild(l, func(ct *lexer.Token) {
		ctx := live.Context
		switch ct.Name() {
		case "start", "end", "match":
			kind := grammar.Container
			if ct.Name() == "match" {
				kind = grammar.Simple
			}
			if e := ctx.Init(kind, attrs); e != nil {
				c.fail(ct, e)
				l.Skip()
				return
			}

			re := c.compileRule(l, ct, st)
			switch ct.Name() {
			case "start":
				ctx.Start = re
			case "end":
				ctx.End = re
			default:
				ctx.Match = re
			}

		case "prefix":
			prefix = l.ReadText()

		case "suffix":
			suffix = l.ReadText()

		case "keyword":
			if e := ctx.Init(grammar.Container, attrs); e != nil {
				c.fail(ct, e)
				l.Skip()
				return
			}

			kw := grammar.NewReference()
			kw.StyleID = styleID
			c.fail(ct, kw.Context.Init(grammar.Keyword, attrs))
			opts := regex.ParseOptions(st.re.Defaults, ct.Attrs())
			re, e := c.regexes.Compile(prefix+l.ReadText()+suffix, opts, st.re)
			c.fail(ct, e)
			kw.Context.Keyword = re
			c.fail(ct, ctx.Append(kw))

		case "include":
			c.parseInclude(l, live, attrs, st)

		default:
			l.Skip()
		}
	})

	orig.Context.CopyFrom(live.Context)
	orig.StyleID = live.StyleID
	return live
}

// resolveRef makes live an alias of context refID or, if it is not defined yet, registers live and orig as its predefinition.
func (c *Compiler) resolveRef(live, orig *grammar.Reference, refID string, original bool, st *langState) {
	if lang, qualified := langload.Namespace(refID); qualified && c.contexts.Known(refID) == nil {
		c.Require(lang)
	}

	key := langload.Qualify(refID, st.id)
	target := c.contexts.Known(key)
	if target == nil {
		logutil.Trace(c.log, "context predefined", "id", key)
		c.contexts.Register(key, live, orig)
		return
	}

	if original {
		if o := c.contexts.Original(key); o != nil {
			target = o
		}
	}
	live.Context = target.Context
	live.StyleID = target.StyleID
}

func (c *Compiler) parseInclude(l *lexer.Lexer, live *grammar.Reference, attrs lexer.Attrs, st *langState) {
	eachChild(l, func(ct *lexer.Token) {
		if ct.Name() != "context" {
			l.Skip()
			return
		}

		ctx := live.Context
		if ctx.Kind() == grammar.Undefined {
			c.fail(ct, ctx.Init(grammar.Container, attrs))
		}

		var extra lexer.Attrs
		switch ctx.Kind() {
		case grammar.Simple:
		case grammar.Container:
			if onceOnly, has := attrs.Value("once-only"); has && ctx.Start.IsEmpty() {
				extra = lexer.Attrs{{Name: "once-only", Value: onceOnly}}
			}
		default:
			c.fail(ct, malformedError(ct, "%s context cannot include other contexts", ctx.Kind()))
			l.Skip()
			return
		}

		inc := c.parseContext(l, ct, st, extra)
		c.fail(ct, ctx.Append(inc))
	})
}

func (c *Compiler) compileRule(l *lexer.Lexer, t *lexer.Token, st *langState) *regex.Regex {
	opts := regex.ParseOptions(st.re.Defaults, t.Attrs())
	re, e := c.regexes.CompileRule(l.ReadText(), opts, st.re)
	c.fail(t, e)
	return re
}
