// Package encoding normalizes vendor report files before CSV parsing.
// Credit and asset exports come from a mix of tools: Excel saves carry a
// UTF-16 BOM, older vendor portals emit Windows-1252, and delimiters
// vary between comma, semicolon and tab.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Sniff returns a UTF-8 reader over r plus the delimiter the file
// appears to use. The delimiter is detected on the decoded first line.
func Sniff(r io.Reader) (io.Reader, rune, error) {
	utf8r, err := NewUTF8Reader(r)
	if err != nil {
		return nil, 0, err
	}

	br := bufio.NewReader(utf8r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, 0, fmt.Errorf("peek: %w", err)
	}

	return br, DetectDelimiter(buf), nil
}

// DetectDelimiter picks the most frequent candidate delimiter on the
// first line of the sample, ignoring characters inside double quotes.
// Comma wins ties, matching the dominant vendor format.
func DetectDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}

	counts := map[rune]int{',': 0, ';': 0, '\t': 0}
	inQuotes := false

	for _, b := range sample {
		switch {
		case b == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case b == ',' || b == ';' || b == '\t':
			counts[rune(b)]++
		}
	}

	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}

	return best
}

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 passes through unchanged
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if dec := decoderFor(result.Charset); dec != nil {
			return transform.NewReader(br, dec), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

func decoderFor(charset string) transform.Transformer {
	switch charset {
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252.NewDecoder()
	case "ISO-8859-15":
		return charmap.ISO8859_15.NewDecoder()
	default:
		return nil
	}
}
