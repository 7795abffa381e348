// Package render turns markdown posts into HTML.
//
// A post may start with a YAML front matter block:
//
//	---
//	title: Solving your own problems
//	date: 2023-04-01
//	---
//
// The produced HTML is not sanitized; posts are trusted first-party content.
package render

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type Document struct {
	Title string
	Date  time.Time
	HTML  string
}

type Renderer interface {
	Render(raw []byte) (*Document, error)
}

type Markdown struct {
	md goldmark.Markdown
}

var _ Renderer = &Markdown{}

// NewMarkdown returns a GFM renderer highlighting fenced code with the
// named chroma style.
func NewMarkdown(highlightStyle string) *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
				renderer.WithNodeRenderers(util.Prioritized(&codeRenderer{style: highlightStyle}, 100)),
			),
		),
	}
}

func (m *Markdown) Render(raw []byte) (*Document, error) {
	meta := frontMatter{}
	body, err := parseFrontMatter(raw, &meta)
	if err != nil {
		return nil, err
	}

	doc := m.md.Parser().Parse(text.NewReader(body))

	out := &bytes.Buffer{}
	if err := m.md.Renderer().Render(out, body, doc); err != nil {
		return nil, errors.WithMessage(err, "rendering markdown")
	}

	title := meta.Title
	if title == "" {
		title = firstHeading(doc, body)
	}

	return &Document{Title: title, Date: meta.Date.Time, HTML: out.String()}, nil
}

func firstHeading(doc ast.Node, source []byte) string {
	title := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = plainText(heading, source)
		return ast.WalkStop, nil
	})
	return title
}

func plainText(n ast.Node, source []byte) string {
	buf := &bytes.Buffer{}
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
