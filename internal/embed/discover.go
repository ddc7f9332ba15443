// Package embed hosts widgets on HTML pages: it discovers the embed tag,
// keeps one widget per page and renders or injects the widget markup.
package embed

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/luckylabs-yuno/yuno/internal/widget"
)

// ScriptName is the file name of the embed script.
const ScriptName = "yuno.js"

// ElementName is the custom element a widget is rendered as.
const ElementName = "yuno-chat"

// Discover scans an HTML document for the first script tag loading
// ScriptName and returns its attributes, src excluded.
func Discover(r io.Reader) (widget.Attributes, bool, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return nil, false, nil
			}
			return nil, false, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "script" {
				continue
			}
			if attrs, ok := scriptAttributes(tok); ok {
				return attrs, true, nil
			}
		}
	}
}

func scriptAttributes(tok html.Token) (widget.Attributes, bool) {
	var src string
	attrs := widget.Attributes{}
	for _, a := range tok.Attr {
		if a.Key == "src" {
			src = a.Val
			continue
		}
		attrs[a.Key] = a.Val
	}
	if !strings.Contains(src, ScriptName) {
		return nil, false
	}
	return attrs, true
}
