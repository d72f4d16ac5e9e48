package importer

// reader.go wraps import input so the run loop sees clean text: a UTF-8
// byte order mark at the start of the stream is dropped before the
// header line is read.

import (
	"bufio"
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type bomSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

// NewImportReader returns a reader that transparently skips a leading
// UTF-8 BOM. Editors on Windows routinely prepend one, and it would
// otherwise corrupt the first header field name.
func NewImportReader(r io.Reader) io.Reader {
	return &bomSkippingReader{r: bufio.NewReader(r)}
}

func (b *bomSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		head, err := b.r.Peek(len(utf8BOM))
		if err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := b.r.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.r.Read(p)
}
