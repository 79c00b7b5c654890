// Package source holds grammar file content and maps byte offsets to line and column numbers.
package source

import (
	"bytes"
	"unicode/utf8"
)

// Source is the content of a single language definition file.
// Source is not safe for concurrent use: LineCol caches the last line found.
type Source struct {
	name          string
	content       []byte
	lineStarts    []int
	prevLineIndex int
}

// New creates a source. name is used in error messages, usually it is a file path.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content, prevLineIndex: -1}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

func (s *Source) Name() string {
	return s.name
}

// Reader returns a fresh reader positioned at the start of content.
func (s *Source) Reader() *bytes.Reader {
	return bytes.NewReader(s.content)
}

func (s *Source) Len() int {
	return len(s.content)
}

// LineCol converts byte offset to 1-based line and column (in runes).
// Offsets out of range are clamped to content bounds.
func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	if pos <= 0 {
		pos = 0
		lineIndex = 0
	} else if pos >= len(s.content) {
		pos = len(s.content)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

func (s *Source) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	left, right := 0, len(s.lineStarts)-1
	if s.prevLineIndex >= 0 {
		right = s.prevLineIndex
	}
	for left < right {
		middle := (left + right + 1) >> 1
		if s.lineStarts[middle] <= pos {
			left = middle
		} else {
			right = middle - 1
		}
	}
	s.prevLineIndex = left
	return left
}

// Pos is a position inside a source, usable as langload.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos computes line and column for byte offset pos. src may be nil.
func NewPos(src *Source, pos int) Pos {
	result := Pos{src: src, pos: pos}
	if src != nil {
		result.line, result.col = src.LineCol(pos)
	}
	return result
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
