// Package editorbridge sincroniza a superfície editável com o resto do
// sistema: cada mutação emite o snapshot completo do conteúdo, e a
// persistência é uma ação explícita condicionada a uma mensagem de commit.
package editorbridge

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tessera/internal/domain"
)

var ErrMensagemVazia = errors.New("a mensagem de commit não pode ser vazia")

type versaoCriador interface {
	CriarVersao(ctx context.Context, req domain.NovaVersao) (*domain.Versao, error)
}

// Bridge mantém o conteúdo corrente do editor. Não há diff incremental: cada
// emissão carrega o markup completo como string autoritativa.
type Bridge struct {
	client       versaoCriador
	monografiaID int64

	mu       sync.Mutex
	content  string
	baseline string
	subs     []chan string
}

func NewBridge(client versaoCriador, monografiaID int64) *Bridge {
	return &Bridge{client: client, monografiaID: monografiaID}
}

// Load instala o conteúdo de uma versão carregada como linha de base; o
// editor passa a estar limpo.
func (b *Bridge) Load(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = content
	b.baseline = content
	b.emit(content)
}

// Apply registra uma mutação do editor e emite o snapshot para os
// assinantes.
func (b *Bridge) Apply(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = content
	b.emit(content)
}

// Content retorna o snapshot corrente.
func (b *Bridge) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content
}

// Dirty indica se o conteúdo diverge da última versão carregada ou salva.
func (b *Bridge) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.content != b.baseline
}

// Subscribe registra um canal que recebe cada snapshot emitido.
func (b *Bridge) Subscribe() <-chan string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan string, 8)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bridge) emit(content string) {
	for _, ch := range b.subs {
		select {
		case ch <- content:
		default:
		}
	}
}

// Save cria uma nova versão com o conteúdo corrente. A mensagem de commit é
// obrigatória; com sucesso o conteúdo salvo vira a nova linha de base.
func (b *Bridge) Save(ctx context.Context, mensagemCommit, tag string) (*domain.Versao, error) {
	if strings.TrimSpace(mensagemCommit) == "" {
		return nil, ErrMensagemVazia
	}

	b.mu.Lock()
	content := b.content
	b.mu.Unlock()

	versao, err := b.client.CriarVersao(ctx, domain.NovaVersao{
		MonografiaID:   b.monografiaID,
		Conteudo:       content,
		MensagemCommit: mensagemCommit,
		Tag:            tag,
	})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.baseline = content
	b.mu.Unlock()

	return versao, nil
}
