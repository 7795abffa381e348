package render

import (
	"testing"
	"time"

	"github.com/smartystreets/assertions"
)

func TestRenderPlain(t *testing.T) {
	a := assertions.New(t)

	doc, err := NewMarkdown("github").Render([]byte("# Hello *there*\n\nSome **bold** text.\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.Title, assertions.ShouldEqual, "Hello there")
	a.So(doc.Date.IsZero(), assertions.ShouldBeTrue)
	a.So(doc.HTML, assertions.ShouldContainSubstring, "Hello <em>there</em></h1>")
	a.So(doc.HTML, assertions.ShouldContainSubstring, "<strong>bold</strong>")
}

func TestRenderFrontMatter(t *testing.T) {
	a := assertions.New(t)

	doc, err := NewMarkdown("github").Render([]byte(`---
title: Behind the Curtain
date: 2023-04-01
---
# Ignored heading

Body.
`))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.Title, assertions.ShouldEqual, "Behind the Curtain")
	a.So(doc.Date.Equal(time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)), assertions.ShouldBeTrue)
	a.So(doc.HTML, assertions.ShouldNotContainSubstring, "title:")
	a.So(doc.HTML, assertions.ShouldContainSubstring, "<p>Body.</p>")
}

func TestRenderFrontMatterRFC3339(t *testing.T) {
	a := assertions.New(t)

	doc, err := NewMarkdown("github").Render([]byte("---\ndate: \"2023-04-01T10:30:00+02:00\"\n---\ntext\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.Title, assertions.ShouldEqual, "")
	a.So(doc.Date.Unix(), assertions.ShouldEqual, time.Date(2023, 4, 1, 8, 30, 0, 0, time.UTC).Unix())
}

func TestRenderMalformedFrontMatter(t *testing.T) {
	a := assertions.New(t)
	md := NewMarkdown("github")

	_, err := md.Render([]byte("---\ntitle: open\nno end\n"))
	a.So(err, assertions.ShouldNotBeNil)

	_, err = md.Render([]byte("---\ndate: yesterday\n---\n"))
	a.So(err, assertions.ShouldNotBeNil)

	_, err = md.Render([]byte("---\ntitle: [unclosed\n---\n"))
	a.So(err, assertions.ShouldNotBeNil)
}

func TestRenderRawHTML(t *testing.T) {
	a := assertions.New(t)

	doc, err := NewMarkdown("github").Render([]byte("<div class=\"note\">trusted</div>\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.HTML, assertions.ShouldContainSubstring, `<div class="note">trusted</div>`)
}

func TestRenderCodeBlocks(t *testing.T) {
	a := assertions.New(t)
	md := NewMarkdown("github")

	doc, err := md.Render([]byte("```go\nfunc main() {}\n```\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.HTML, assertions.ShouldContainSubstring, "<pre")
	a.So(doc.HTML, assertions.ShouldContainSubstring, "style=")
	a.So(doc.HTML, assertions.ShouldContainSubstring, "main")

	doc, err = md.Render([]byte("```\n<b>&</b>\n```\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.HTML, assertions.ShouldEqual, "<pre><code>&lt;b&gt;&amp;&lt;/b&gt;\n</code></pre>\n")
}

func TestRenderFrontMatterBoundaries(t *testing.T) {
	a := assertions.New(t)
	md := NewMarkdown("github")

	doc, err := md.Render([]byte("\n---\ntitle: After blank lines\n---\nbody\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.Title, assertions.ShouldEqual, "After blank lines")
	a.So(doc.HTML, assertions.ShouldEqual, "<p>body</p>\n")

	doc, err = md.Render([]byte("intro\n\n---\n\ntitle: not front matter\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.Title, assertions.ShouldEqual, "")
	a.So(doc.HTML, assertions.ShouldContainSubstring, "<hr")
	a.So(doc.HTML, assertions.ShouldContainSubstring, "title: not front matter")

	doc, err = md.Render([]byte("---\n---\n# Empty block\n"))
	a.So(err, assertions.ShouldBeNil)
	a.So(doc.Title, assertions.ShouldEqual, "Empty block")
}
