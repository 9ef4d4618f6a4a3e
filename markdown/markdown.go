// Package markdown renders article Markdown to sanitized HTML.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// policy is bluemonday's user-generated-content baseline, widened to keep
// the attributes goldmark emits: heading anchors and language classes on
// fenced code blocks.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)).
		OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[a-zA-Z0-9+-]+$`)).
		OnElements("code")
	return p
}()

// Render converts src to HTML. Unless unsafe is set, the output is
// sanitized; raw HTML in the source survives only an unsafe render.
func Render(src []byte, unsafe bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}
	if unsafe {
		return buf.Bytes(), nil
	}
	return policy.SanitizeBytes(buf.Bytes()), nil
}

// Markdown returns a templ.Component that renders src as sanitized HTML.
func Markdown(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := Render([]byte(src), false)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	})
}
