// Package test contains helpers shared by langload tests.
package test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/spf13/afero"

	"github.com/ava12/langload"
)

func fatalf(t *testing.T, message string, params ...any) {
	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}
	_, thisFile, _, _ := runtime.Caller(0)
	file := thisFile
	line := 0
	for i := 2; file == thisFile; i++ {
		_, file, line, _ = runtime.Caller(i)
	}
	t.Fatalf("%s at %s:%d", message, file, line)
}

// ErrorCodes lists codes of all *langload.Error values found in e, including joined and wrapped ones.
func ErrorCodes(e error) []int {
	var result []int
	var walk func(e error)
	walk = func(e error) {
		if e == nil {
			return
		}

		if le, is := e.(*langload.Error); is {
			result = append(result, le.Code)
			return
		}

		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, ue := range u.Unwrap() {
				walk(ue)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(e)
	return result
}

// ExpectErrorCode fails unless e is or contains *langload.Error with expected code.
func ExpectErrorCode(t *testing.T, expected int, e error) {
	for _, code := range ErrorCodes(e) {
		if code == expected {
			return
		}
	}

	fatalf(t, "expecting error code %d, got %v", expected, e)
}

// Fs creates in-memory file system containing files, keys are paths and values are contents.
func Fs(t *testing.T, files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if e := afero.WriteFile(fs, name, []byte(content), 0o644); e != nil {
			fatalf(t, "cannot write %s: %s", name, e)
		}
	}
	return fs
}

// Resolver maps language ids and MIME types to fixture paths.
type Resolver struct {
	IDs   map[string]string
	Mimes map[string]string
	// Calls counts PathForID calls per language id.
	Calls map[string]int
}

func NewResolver(ids map[string]string) *Resolver {
	return &Resolver{IDs: ids, Mimes: make(map[string]string), Calls: make(map[string]int)}
}

func (r *Resolver) PathForID(id string) string {
	r.Calls[id]++
	return r.IDs[id]
}

func (r *Resolver) PathForMimeType(mimeType, _ string) string {
	return r.Mimes[mimeType]
}
