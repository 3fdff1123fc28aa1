// Package anchor gerencia as âncoras de comentário embutidas no conteúdo
// renderizado: geração de IDs, máquina de estados da seleção, destaque
// idempotente e filtros do painel de comentários.
package anchor

import (
	"errors"
	"strings"
	"sync"
)

// State é o estado da sessão de edição em relação à criação de âncoras.
type State int

const (
	StateIdle State = iota
	StateSelectionPending
	StateAnchorCreated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelectionPending:
		return "selection-pending"
	case StateAnchorCreated:
		return "anchor-created"
	}
	return "unknown"
}

var (
	ErrSemSelecao     = errors.New("nenhum texto selecionado")
	ErrAncoraPendente = errors.New("existe uma âncora aguardando confirmação")
	ErrSemAncora      = errors.New("nenhuma âncora aguardando confirmação")
)

// AnchorEvent é emitido quando uma nova âncora é solicitada; o painel de
// comentários o consome para abrir o formulário de criação.
type AnchorEvent struct {
	AnchorID         string
	TextoSelecionado string
}

// Manager implementa a máquina de estados Idle → SelectionPending →
// AnchorCreated → Idle. A âncora só é pintada no conteúdo quando o
// comentário foi persistido: Commit aplica o span, Rollback descarta a
// âncora sem tocar o conteúdo, de modo que um marcador visível só existe se
// o comentário existe.
type Manager struct {
	mu            sync.Mutex
	state         State
	selecao       string
	pendingAnchor string
	ancoraAtual   string
}

func NewManager() *Manager {
	return &Manager{state: StateIdle}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Select registra uma seleção de texto não vazia. Seleção vazia equivale a
// ClearSelection. Enquanto uma âncora aguarda confirmação a seleção é
// rejeitada.
func (m *Manager) Select(texto string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAnchorCreated {
		return ErrAncoraPendente
	}

	if strings.TrimSpace(texto) == "" {
		m.state = StateIdle
		m.selecao = ""
		return nil
	}

	m.state = StateSelectionPending
	m.selecao = texto
	return nil
}

// ClearSelection volta ao estado Idle quando a seleção colapsa.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSelectionPending {
		m.state = StateIdle
		m.selecao = ""
	}
}

// BeginComment gera a âncora para a seleção corrente e emite o evento para o
// painel. O conteúdo não é modificado aqui; a âncora fica pendente até
// Commit ou Rollback.
func (m *Manager) BeginComment() (AnchorEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateAnchorCreated:
		return AnchorEvent{}, ErrAncoraPendente
	case StateIdle:
		return AnchorEvent{}, ErrSemSelecao
	}

	m.pendingAnchor = GenerateAnchorID()
	m.state = StateAnchorCreated

	return AnchorEvent{AnchorID: m.pendingAnchor, TextoSelecionado: m.selecao}, nil
}

// Commit aplica o span da âncora pendente sobre o conteúdo após a
// persistência do comentário e encerra o ciclo. Em caso de falha na
// aplicação o estado é preservado para que o chamador decida por Rollback.
func (m *Manager) Commit(content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAnchorCreated {
		return "", ErrSemAncora
	}

	annotated, err := Annotate(content, m.selecao, m.pendingAnchor)
	if err != nil {
		return "", err
	}

	m.state = StateIdle
	m.selecao = ""
	m.pendingAnchor = ""
	return annotated, nil
}

// Rollback descarta a âncora pendente quando a criação do comentário falha
// ou é abandonada. O conteúdo nunca chegou a ser modificado.
func (m *Manager) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAnchorCreated {
		m.state = StateIdle
		m.selecao = ""
		m.pendingAnchor = ""
	}
}

// AbrirThread ativa o filtro transiente de âncora atual quando uma thread é
// aberta a partir do conteúdo renderizado.
func (m *Manager) AbrirThread(anchorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ancoraAtual = anchorID
}

func (m *Manager) FecharThread() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ancoraAtual = ""
}

// AncoraAtual retorna a âncora da thread aberta, vazia quando nenhuma.
func (m *Manager) AncoraAtual() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ancoraAtual
}
