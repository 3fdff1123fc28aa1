package anchor

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tessera/internal/domain"
)

const (
	// AttrAnchorID é o atributo que liga um span ao comentário ancorado.
	AttrAnchorID = "data-comment-anchor-id"

	classHighlight  = "comment-highlight"
	classHasComment = "has-comment"
)

var (
	ErrSelecaoNaoEncontrada = errors.New("texto selecionado não encontrado no conteúdo")
)

// Annotate envolve a primeira ocorrência de selecao em um span marcado com o
// ID da âncora e devolve o conteúdo resultante. O conteúdo original não é
// modificado em caso de erro.
func Annotate(content, selecao, anchorID string) (string, error) {
	if strings.TrimSpace(selecao) == "" {
		return "", ErrSelecaoNaoEncontrada
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	if len(body.Nodes) == 0 {
		return "", ErrSelecaoNaoEncontrada
	}

	node := findTextNode(body.Nodes[0], selecao)
	if node == nil {
		return "", ErrSelecaoNaoEncontrada
	}

	idx := strings.Index(node.Data, selecao)
	before := node.Data[:idx]
	after := node.Data[idx+len(selecao):]

	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: classHighlight},
			{Key: AttrAnchorID, Val: anchorID},
		},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: selecao})

	parent := node.Parent
	if before != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, node)
	}
	parent.InsertBefore(span, node)
	if after != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: after}, node)
	}
	parent.RemoveChild(node)

	return body.Html()
}

// Highlight ressincroniza os spans de âncora com a lista de comentários da
// versão ativa: marca cada âncora viva com has-comment, remove spans órfãos
// (âncoras sem comentário restante) e colapsa duplicatas, garantindo
// exatamente um span por âncora. Idempotente: reaplicar sobre conteúdo já
// destacado não altera o resultado.
func Highlight(content string, comentarios []domain.Comentario) (string, error) {
	live := make(map[string]bool)
	for _, c := range comentarios {
		if c.PosicaoTexto != nil && *c.PosicaoTexto != "" {
			live[*c.PosicaoTexto] = true
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	doc.Find("span[" + AttrAnchorID + "]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr(AttrAnchorID)
		if !live[id] || seen[id] {
			unwrap(s)
			return
		}
		seen[id] = true
		s.AddClass(classHasComment)
	})

	return doc.Find("body").Html()
}

// findTextNode percorre a árvore em profundidade e devolve o primeiro nó de
// texto que contém o trecho procurado, ignorando texto já dentro de um span
// de âncora.
func findTextNode(n *html.Node, trecho string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "span" && hasAttr(n, AttrAnchorID) {
		return nil
	}
	if n.Type == html.TextNode && strings.Contains(n.Data, trecho) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTextNode(c, trecho); found != nil {
			return found
		}
	}
	return nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// unwrap substitui o span pelos seus filhos, preservando o texto.
func unwrap(s *goquery.Selection) {
	for _, n := range s.Nodes {
		parent := n.Parent
		if parent == nil {
			continue
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			parent.InsertBefore(c, n)
			c = next
		}
		parent.RemoveChild(n)
	}
}
