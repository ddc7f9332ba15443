package embed

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	g "maragu.dev/gomponents"
)

// Inject copies page to dst with node inserted just before the closing body
// tag, or at the end when the page has none. A page that already contains a
// widget element is copied unchanged.
func Inject(dst io.Writer, page io.Reader, node g.Node) error {
	src, err := io.ReadAll(page)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	at, present, err := insertionPoint(src)
	if err != nil {
		return err
	}
	if present {
		_, err = dst.Write(src)
		return err
	}

	var buf bytes.Buffer
	buf.Grow(len(src) + 4096)
	buf.Write(src[:at])
	if err := node.Render(&buf); err != nil {
		return fmt.Errorf("failed to render widget: %w", err)
	}
	buf.Write(src[at:])

	_, err = buf.WriteTo(dst)
	return err
}

// insertionPoint returns the offset of the last closing body tag and
// whether a widget element is already present.
func insertionPoint(src []byte) (int, bool, error) {
	z := html.NewTokenizer(bytes.NewReader(src))
	offset := 0
	at := len(src)

	for {
		tt := z.Next()
		raw := len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return at, false, nil
			}
			return 0, false, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == ElementName {
				return 0, true, nil
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "body" {
				at = offset
			}
		}
		offset += raw
	}
}
