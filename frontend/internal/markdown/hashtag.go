package markdown

import (
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Hashtag is an inline "#word" in a caption or description.
type Hashtag struct {
	ast.BaseInline
	Tag []byte
}

func (n *Hashtag) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Tag": string(n.Tag)}, nil)
}

var KindHashtag = ast.NewNodeKind("Hashtag")

func (n *Hashtag) Kind() ast.NodeKind {
	return KindHashtag
}

type hashtagParser struct{}

func NewHashtagParser() parser.InlineParser {
	return &hashtagParser{}
}

func (p *hashtagParser) Trigger() []byte {
	return []byte{'#'}
}

func (p *hashtagParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	// "a#b" is not a tag
	if prev := block.PrecendingCharacter(); prev != '\n' && !unicode.IsSpace(prev) && prev != '(' {
		return nil
	}

	line, _ := block.PeekLine()
	if len(line) < 2 || line[0] != '#' {
		return nil
	}

	end := 1
	for end < len(line) {
		r, size := utf8.DecodeRune(line[end:])
		if !isTagRune(r) {
			break
		}
		end += size
	}
	if end == 1 {
		return nil
	}

	node := &Hashtag{Tag: append([]byte(nil), line[1:end]...)}
	block.Advance(end)
	return node
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// HashtagHTMLRenderer renders hashtags as highlighted spans.
type HashtagHTMLRenderer struct {
	html.Config
}

func NewHashtagHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HashtagHTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *HashtagHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindHashtag, r.renderHashtag)
}

func (r *HashtagHTMLRenderer) renderHashtag(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		n := node.(*Hashtag)
		_, _ = w.WriteString(`<span class="hashtag">#`)
		_, _ = w.Write(util.EscapeHTML(n.Tag))
		_, _ = w.WriteString("</span>")
	}
	return ast.WalkSkipChildren, nil
}
