package anno

import "unicode/utf8"

// byteRange is an inclusive range of raw UTF-8 encoding bytes, one position
// within an encoded rune sequence.
type byteRange struct{ lo, hi byte }

// byteSeq is one fully-encoded slice of a code-point range: a sequence of
// 1-4 byteRanges such that every combination of bytes drawn independently
// from each position's range is a valid, distinct UTF-8 encoding of some
// rune in the original code-point interval, and every such rune is covered
// by exactly one byteSeq in the set returned by utf8Sequences.
type byteSeq []byteRange

// maxRuneOfLen are the largest code points encodable in 1, 2, 3, and 4 UTF-8
// bytes respectively; splitting at these boundaries ensures every byteSeq
// this package produces has a single, fixed encoded length.
var maxRuneOfLen = [4]rune{0x7F, 0x7FF, 0xFFFF, 0x10FFFF}

// utf8Sequences decomposes the inclusive code-point interval [lo, hi] into
// the minimal set of byteSeqs describing it, per design note
// "Reference-counted Unicode trie in UnicodeRange". Invalid code points
// (surrogates) are not filtered; callers working with validated Unicode
// text should pre-clip lo/hi to exclude [0xD800, 0xDFFF] if that matters
// for their grammar.
func utf8Sequences(lo, hi rune) []byteSeq {
	var out []byteSeq
	splitByLength(lo, hi, &out)
	return out
}

func splitByLength(lo, hi rune, out *[]byteSeq) {
	if lo > hi {
		return
	}
	for _, m := range maxRuneOfLen {
		if lo <= m && m < hi {
			splitByLength(lo, m, out)
			splitByLength(m+1, hi, out)
			return
		}
	}
	var loBuf, hiBuf [utf8.UTFMax]byte
	n := utf8.EncodeRune(loBuf[:], lo)
	n2 := utf8.EncodeRune(hiBuf[:], hi)
	if n != n2 {
		panic("anno: utf8 encode length mismatch after length-class split")
	}
	*out = append(*out, splitBytes(append([]byte(nil), loBuf[:n]...), append([]byte(nil), hiBuf[:n]...))...)
}

// splitBytes recursively peels off a shared leading byte, then handles any
// boundary mismatch between lo and hi's remaining bytes by splitting out
// the portion where the tail isn't yet a full continuation-byte range
// ([0x80, 0xBF]), leaving a single aligned middle range when one remains.
func splitBytes(lo, hi []byte) []byteSeq {
	n := len(lo)
	if n == 1 {
		return []byteSeq{{{lo: lo[0], hi: hi[0]}}}
	}
	if lo[0] == hi[0] {
		var out []byteSeq
		for _, tail := range splitBytes(lo[1:], hi[1:]) {
			out = append(out, append(byteSeq{{lo: lo[0], hi: lo[0]}}, tail...))
		}
		return out
	}

	var out []byteSeq
	loFirst, hiFirst := lo[0], hi[0]

	if !allBytesEqual(lo[1:], 0x80) {
		maxTail := make([]byte, n-1)
		fillBytes(maxTail, 0xBF)
		for _, tail := range splitBytes(lo[1:], maxTail) {
			out = append(out, append(byteSeq{{lo: loFirst, hi: loFirst}}, tail...))
		}
		loFirst++
	}
	if !allBytesEqual(hi[1:], 0xBF) {
		minTail := make([]byte, n-1)
		fillBytes(minTail, 0x80)
		for _, tail := range splitBytes(minTail, hi[1:]) {
			out = append(out, append(byteSeq{{lo: hiFirst, hi: hiFirst}}, tail...))
		}
		hiFirst--
	}
	if loFirst <= hiFirst {
		full := make([]byteSeq, 0, 1)
		var rest byteSeq
		for i := 0; i < n-1; i++ {
			rest = append(rest, byteRange{lo: 0x80, hi: 0xBF})
		}
		full = append(full, append(byteSeq{{lo: loFirst, hi: hiFirst}}, rest...))
		out = append(out, full...)
	}
	return out
}

func allBytesEqual(bs []byte, v byte) bool {
	for _, b := range bs {
		if b != v {
			return false
		}
	}
	return true
}

func fillBytes(bs []byte, v byte) {
	for i := range bs {
		bs[i] = v
	}
}
