// Package byteview provides ByteView, a borrowed, immutable window over a
// UTF-8 byte buffer. It never copies or allocates beyond what its own
// bookkeeping requires; every slice and iteration reads straight out of the
// buffer the caller owns.
package byteview

import "unicode/utf8"

// ByteView is a zero-copy window into a caller-owned buffer. The zero value
// is an empty view.
type ByteView struct {
	buf   []byte
	start int
	end   int
}

// New returns a ByteView over the whole of buf. buf is not copied; the
// caller must keep it alive for as long as the view (and any views derived
// from it) are in use.
func New(buf []byte) ByteView {
	return ByteView{buf: buf, start: 0, end: len(buf)}
}

// Len returns the number of bytes in the view.
func (v ByteView) Len() int { return v.end - v.start }

// Bytes returns the raw bytes of the view. The returned slice aliases the
// owner buffer; callers must not mutate it.
func (v ByteView) Bytes() []byte { return v.buf[v.start:v.end] }

// At returns the byte at index i within the view.
func (v ByteView) At(i int) byte { return v.buf[v.start+i] }

// Slice returns a sub-view [lo, hi) of v, in view-relative offsets. It
// panics if the bounds are out of range, matching slice semantics.
func (v ByteView) Slice(lo, hi int) ByteView {
	if lo < 0 || hi > v.Len() || lo > hi {
		panic("byteview: slice out of range")
	}
	return ByteView{buf: v.buf, start: v.start + lo, end: v.start + hi}
}

// From returns the sub-view starting at view-relative offset i and running
// to the end of v.
func (v ByteView) From(i int) ByteView { return v.Slice(i, v.Len()) }

// IsEmpty reports whether the view has zero length.
func (v ByteView) IsEmpty() bool { return v.start == v.end }

// String materializes the view's contents as a string. This is the one
// place a copy happens; callers that only need to compare or scan bytes
// should prefer Bytes() or RuneAt().
func (v ByteView) String() string { return string(v.Bytes()) }

// RuneAt decodes the UTF-8 codepoint starting at view-relative byte offset
// i, returning the rune and its encoded width in bytes. An invalid encoding
// yields utf8.RuneError with width 1, matching utf8.DecodeRune.
func (v ByteView) RuneAt(i int) (r rune, size int) {
	return utf8.DecodeRune(v.buf[v.start+i : v.end])
}

// Runes returns an iterator-like slice of (rune, byteOffset) pairs covering
// the whole view. It performs exactly one decode pass; no intermediate
// string is built.
func (v ByteView) Runes() []RuneAndOffset {
	out := make([]RuneAndOffset, 0, v.Len())
	i := 0
	for i < v.Len() {
		r, sz := v.RuneAt(i)
		out = append(out, RuneAndOffset{Rune: r, Offset: i})
		if sz == 0 {
			sz = 1
		}
		i += sz
	}
	return out
}

// RuneAndOffset pairs a decoded codepoint with its byte offset within the
// ByteView it was decoded from.
type RuneAndOffset struct {
	Rune   rune
	Offset int
}

// HasPrefix reports whether v begins with the literal bytes of s.
func (v ByteView) HasPrefix(s string) bool {
	if len(s) > v.Len() {
		return false
	}
	for i := 0; i < len(s); i++ {
		if v.At(i) != s[i] {
			return false
		}
	}
	return true
}

// IndexByte returns the view-relative offset of the first occurrence of c
// at or after view-relative offset from, or -1 if not present.
func (v ByteView) IndexByte(from int, c byte) int {
	for i := from; i < v.Len(); i++ {
		if v.At(i) == c {
			return i
		}
	}
	return -1
}
