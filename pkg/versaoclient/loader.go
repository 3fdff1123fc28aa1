package versaoclient

import (
	"context"
	"sync"
	"sync/atomic"

	"tessera/internal/domain"
)

type versaoLister interface {
	ListVersoes(ctx context.Context, monografiaID int64) ([]domain.Versao, error)
}

// Loader serializa cargas de histórico disparadas em sequência rápida (troca
// de versão no editor). Cada carga recebe um número de sequência crescente;
// apenas a resposta da carga mais recente é aplicada — respostas atrasadas de
// cargas anteriores são descartadas em vez de sobrescrever dados mais novos.
type Loader struct {
	client versaoLister
	seq    atomic.Uint64

	mu sync.Mutex // serializa a aplicação dos resultados
}

func NewLoader(client versaoLister) *Loader {
	return &Loader{client: client}
}

// Load busca o histórico e entrega o resultado a apply somente se nenhuma
// carga mais nova foi iniciada enquanto esta estava em voo. Retorna false
// quando a resposta foi descartada por estar obsoleta.
func (l *Loader) Load(ctx context.Context, monografiaID int64, apply func([]domain.Versao)) (bool, error) {
	ticket := l.seq.Add(1)

	versoes, err := l.client.ListVersoes(ctx, monografiaID)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if ticket != l.seq.Load() {
		return false, nil
	}
	apply(versoes)
	return true, nil
}
