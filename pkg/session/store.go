// Package session guarda a identidade autenticada do lado cliente: um único
// ponto de verdade consultável de forma síncrona e observável por assinantes
// independentes.
package session

import (
	"sync"

	"tessera/internal/domain"
)

// Identity é a identidade resolvida após o login.
type Identity struct {
	ID           int64       `json:"id"`
	Nome         string      `json:"nome"`
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

// Snapshot é o estado da sessão em um instante. Authenticated distingue a
// sessão vazia de uma identidade com campos zerados.
type Snapshot struct {
	Identity      Identity
	Authenticated bool
}

// Store mantém a sessão corrente. O valor zero é utilizável e representa uma
// sessão não autenticada.
type Store struct {
	mu      sync.RWMutex
	current Snapshot
	subs    map[int]chan Snapshot
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]chan Snapshot)}
}

// Current retorna o snapshot atual de forma síncrona.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set registra a identidade autenticada e notifica os assinantes.
func (s *Store) Set(id Identity) {
	s.publish(Snapshot{Identity: id, Authenticated: true})
}

// Clear encerra a sessão (logout ou 401 forçado) e notifica os assinantes.
func (s *Store) Clear() {
	s.publish(Snapshot{})
}

func (s *Store) publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
	for _, ch := range s.subs {
		// Assinante lento perde estados intermediários, nunca bloqueia o Store
		select {
		case ch <- snap:
		default:
		}
	}
}

// Subscribe registra um assinante. O canal recebe cada novo snapshot; a
// função retornada cancela a assinatura e fecha o canal.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan Snapshot, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Token devolve o bearer corrente, vazio quando não autenticado. Serve como
// fonte de credencial para os clientes HTTP.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.Authenticated {
		return ""
	}
	return s.current.Identity.Token
}
