package eventloader

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ChunkSize is the number of source lines classified and flushed together.
const ChunkSize = 1000

const byteOrderMark = "\uFEFF"

// SourceEncoding resolves a configured encoding name. "utf-16" honours a
// byte order mark and falls back to little endian.
func SourceEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	default:
		return nil, fmt.Errorf("unsupported source encoding %q", name)
	}
}

// lineReader decodes a source stream and hands it out in chunks of lines.
type lineReader struct {
	r     *bufio.Reader
	lines int
	eof   bool
}

func newLineReader(r io.Reader, enc encoding.Encoding) *lineReader {
	return &lineReader{r: bufio.NewReader(transform.NewReader(r, enc.NewDecoder()))}
}

// nextLine is the source line number of the next line to be read.
func (l *lineReader) nextLine() int { return l.lines + 1 }

// skip discards one line, typically the export header.
func (l *lineReader) skip() error {
	if _, err := l.readChunk(1); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	return nil
}

// readChunk reads up to n lines. An empty result means the stream is
// exhausted.
func (l *lineReader) readChunk(n int) ([]string, error) {
	var lines []string
	for len(lines) < n && !l.eof {
		line, err := l.r.ReadString('\n')
		if err == io.EOF {
			l.eof = true
		} else if err != nil {
			return nil, fmt.Errorf("read line %d: %w", l.nextLine(), err)
		}
		if line == "" {
			break
		}
		if l.lines == 0 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		l.lines++
		lines = append(lines, line)
	}
	return lines, nil
}
