package versaoclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"tessera/internal/domain"
)

// gateLister segura cada chamada até o teste liberar a resposta, permitindo
// simular respostas chegando fora da ordem de requisição.
type gateLister struct {
	mu      sync.Mutex
	calls   []chan []domain.Versao
	entered chan int
}

func newGateLister() *gateLister {
	return &gateLister{entered: make(chan int, 4)}
}

func (g *gateLister) ListVersoes(_ context.Context, _ int64) ([]domain.Versao, error) {
	ch := make(chan []domain.Versao)
	g.mu.Lock()
	idx := len(g.calls)
	g.calls = append(g.calls, ch)
	g.mu.Unlock()

	g.entered <- idx
	return <-ch, nil
}

func (g *gateLister) release(idx int, versoes []domain.Versao) {
	g.mu.Lock()
	ch := g.calls[idx]
	g.mu.Unlock()
	ch <- versoes
}

func TestLoaderDescartaRespostaAtrasada(t *testing.T) {
	lister := newGateLister()
	loader := NewLoader(lister)
	ctx := context.Background()

	var mu sync.Mutex
	var aplicadas [][]domain.Versao
	apply := func(v []domain.Versao) {
		mu.Lock()
		aplicadas = append(aplicadas, v)
		mu.Unlock()
	}

	// Primeira carga fica em voo
	resultA := make(chan bool, 1)
	go func() {
		ok, err := loader.Load(ctx, 1, apply)
		if err != nil {
			t.Errorf("Load() A error = %v", err)
		}
		resultA <- ok
	}()
	idxA := <-lister.entered

	// Segunda carga parte depois e responde primeiro
	resultB := make(chan bool, 1)
	go func() {
		ok, err := loader.Load(ctx, 1, apply)
		if err != nil {
			t.Errorf("Load() B error = %v", err)
		}
		resultB <- ok
	}()
	idxB := <-lister.entered

	lister.release(idxB, []domain.Versao{{ID: 2}})
	if ok := <-resultB; !ok {
		t.Fatal("a carga mais recente foi descartada")
	}

	// A resposta antiga chega atrasada e deve ser ignorada
	lister.release(idxA, []domain.Versao{{ID: 1}})
	if ok := <-resultA; ok {
		t.Fatal("a resposta atrasada foi aplicada")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(aplicadas) != 1 || aplicadas[0][0].ID != 2 {
		t.Errorf("aplicadas = %v, want apenas o resultado da carga mais recente", aplicadas)
	}
}

func TestLoaderCargaUnica(t *testing.T) {
	lister := newGateLister()
	loader := NewLoader(lister)

	var got []domain.Versao
	done := make(chan bool, 1)
	go func() {
		ok, err := loader.Load(context.Background(), 1, func(v []domain.Versao) { got = v })
		if err != nil {
			t.Errorf("Load() error = %v", err)
		}
		done <- ok
	}()

	idx := <-lister.entered
	lister.release(idx, []domain.Versao{{ID: 9}})

	select {
	case ok := <-done:
		if !ok {
			t.Fatal("carga única foi descartada")
		}
	case <-time.After(time.Second):
		t.Fatal("Load() não retornou")
	}

	if len(got) != 1 || got[0].ID != 9 {
		t.Errorf("resultado = %v, want a lista respondida", got)
	}
}
