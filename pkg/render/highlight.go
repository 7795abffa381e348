package render

import (
	"bytes"
	stdhtml "html"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeRenderer replaces goldmark's fenced code block output with chroma
// highlighted HTML when the block names a language chroma knows.
type codeRenderer struct {
	style string
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	code := &bytes.Buffer{}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	language := string(n.Language(source))
	if language != "" && lexers.Get(language) != nil {
		highlighted := &bytes.Buffer{}
		if err := quick.Highlight(highlighted, code.String(), language, "html", r.style); err == nil {
			_, _ = w.Write(highlighted.Bytes())
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString("<pre><code>")
	_, _ = w.WriteString(stdhtml.EscapeString(code.String()))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}
