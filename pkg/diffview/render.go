// Package diffview converte um resultado de diff em marcação de exibição.
package diffview

import (
	"html"
	"strings"

	"tessera/internal/domain"
)

// MensagemSemDiferencas é renderizada quando o diff é vazio, para que a
// ausência de diferenças seja distinguível de um estado de carregamento ou
// erro.
const MensagemSemDiferencas = "Não há diferenças significativas entre as versões."

// Render converte a resposta de diff em HTML. Se o servidor enviou o HTML
// pré-renderizado, ele é usado sem alteração; caso contrário cada segmento é
// envolvido na classe do seu tipo, na ordem exata da sequência de entrada,
// sem fusão de segmentos adjacentes.
func Render(resp *domain.DiffResponse) string {
	if resp == nil {
		return MensagemSemDiferencas
	}
	if resp.HTMLDiff != "" {
		return resp.HTMLDiff
	}
	if len(resp.Diffs) == 0 {
		return MensagemSemDiferencas
	}

	var b strings.Builder
	b.WriteString(`<div class='diff-container'>`)
	for _, seg := range resp.Diffs {
		b.WriteString(`<span class='`)
		b.WriteString(segmentClass(seg))
		b.WriteString(`'>`)
		b.WriteString(html.EscapeString(seg.Value))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func segmentClass(seg domain.DiffSegment) string {
	switch {
	case seg.Added:
		return "diff-added"
	case seg.Removed:
		return "diff-removed"
	}
	return "diff-context"
}
