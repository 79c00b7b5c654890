/*
Package langdef compiles GtkSourceView language definition files (*.lang) into a grammar.Context graph.

A language definition is an XML document. The compiler recognizes these elements, everything else is ignored
(elements nested inside unknown top-level elements are still scanned):

	<language id="c" name="C" section="Source" version="2.0" hidden="false">
	  <metadata>
	    <property name="mimetypes">text/x-c;text/x-csrc</property>
	    <property name="globs">*.c</property>
	    <property name="line-comment">//</property>
	  </metadata>
	  <styles>
	    <style id="comment" map-to="def:comment"/>
	  </styles>
	  <default-regex-options case-sensitive="false" extended="true"/>
	  <keyword-char-class>[A-Za-z_]</keyword-char-class>
	  <definitions>
	    <define-regex id="num" extended="false">[0-9]+</define-regex>
	    <context id="c">...</context>
	    <replace id="def:in-comment" ref="my-comment"/>
	  </definitions>
	</language>

Context and style ids are local to the language and are stored qualified ("c:comment").
A ref or map-to value with a language prefix ("def:string") points to another language,
whose definitions are loaded on demand through a Resolver.

A context element may have these attributes:
  - id: context id, a context without id can only be used where it is defined;
  - ref: reuse a context defined elsewhere (possibly later in the document);
  - original: with ref, use the context as it was defined, ignoring replace directives;
  - style-ref: style id, defaults to the style of the referenced context;
  - ignore-style: drop the style;
  - sub-pattern, where: make a sub-pattern context for a capture group of the enclosing match, start, or end;
  - once-only, extend-parent, end-parent, end-at-line-end, first-line-only, style-inside: highlighter flags.

Context content:
  - start, end: make a container context with delimiter regexes;
  - match: make a simple context;
  - prefix, suffix: raw regex text wrapped around following keywords, \%[ and \%] by default;
  - keyword: add a keyword context to the container;
  - include: nested contexts, which are container children or simple context sub-patterns.

Regex elements accept case-sensitive and extended attributes overriding the default-regex-options.
Start, end, and match regexes are always compiled in extended mode, non-extended text gets spaces and
'#' escaped. Patterns may refer to define-regex macros as \%{id}; \%[ and \%] denote word boundaries
configured by keyword-char-class.

The replace directive copies content and style of context ref into context id.
Every defined context keeps a copy of its content taken when its definition ends;
that copy is what the original attribute refers to.
*/
package langdef
