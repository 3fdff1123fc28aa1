package editorbridge

import (
	"context"
	"errors"
	"testing"

	"tessera/internal/domain"
)

type fakeCriador struct {
	criadas []domain.NovaVersao
	err     error
}

func (f *fakeCriador) CriarVersao(_ context.Context, req domain.NovaVersao) (*domain.Versao, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.criadas = append(f.criadas, req)
	return &domain.Versao{ID: int64(len(f.criadas)), MonografiaID: req.MonografiaID}, nil
}

func TestBridgeDirty(t *testing.T) {
	b := NewBridge(&fakeCriador{}, 1)

	b.Load("<p>original</p>")
	if b.Dirty() {
		t.Error("editor recém-carregado não deveria estar sujo")
	}

	b.Apply("<p>editado</p>")
	if !b.Dirty() {
		t.Error("mutação deveria marcar o editor como sujo")
	}

	b.Apply("<p>original</p>")
	if b.Dirty() {
		t.Error("voltar ao conteúdo da linha de base deveria limpar o dirty")
	}
}

func TestBridgeEmiteSnapshotCompleto(t *testing.T) {
	b := NewBridge(&fakeCriador{}, 1)
	ch := b.Subscribe()

	b.Load("<p>um</p>")
	if got := <-ch; got != "<p>um</p>" {
		t.Errorf("snapshot = %q, want o conteúdo carregado", got)
	}

	b.Apply("<p>dois</p>")
	if got := <-ch; got != "<p>dois</p>" {
		t.Errorf("snapshot = %q, want o conteúdo completo da mutação", got)
	}
}

func TestBridgeSaveExigeMensagem(t *testing.T) {
	criador := &fakeCriador{}
	b := NewBridge(criador, 1)
	b.Load("<p>conteúdo</p>")
	b.Apply("<p>conteúdo editado</p>")

	if _, err := b.Save(context.Background(), "   ", ""); !errors.Is(err, ErrMensagemVazia) {
		t.Fatalf("Save() sem mensagem: error = %v, want ErrMensagemVazia", err)
	}
	if len(criador.criadas) != 0 {
		t.Error("Save() sem mensagem não deveria chegar ao servidor")
	}
}

func TestBridgeSave(t *testing.T) {
	criador := &fakeCriador{}
	b := NewBridge(criador, 7)
	b.Load("<p>um</p>")
	b.Apply("<p>dois</p>")

	v, err := b.Save(context.Background(), "segunda revisão", "entrega-1")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if v.MonografiaID != 7 {
		t.Errorf("MonografiaID = %d, want 7", v.MonografiaID)
	}

	if len(criador.criadas) != 1 {
		t.Fatalf("criadas = %d, want 1", len(criador.criadas))
	}
	req := criador.criadas[0]
	if req.Conteudo != "<p>dois</p>" || req.MensagemCommit != "segunda revisão" || req.Tag != "entrega-1" {
		t.Errorf("requisição = %+v", req)
	}

	if b.Dirty() {
		t.Error("conteúdo salvo deveria virar a nova linha de base")
	}
}

func TestBridgeSaveFalhaMantemDirty(t *testing.T) {
	criador := &fakeCriador{err: errors.New("servidor indisponível")}
	b := NewBridge(criador, 1)
	b.Load("<p>um</p>")
	b.Apply("<p>dois</p>")

	if _, err := b.Save(context.Background(), "tentativa", ""); err == nil {
		t.Fatal("Save() deveria propagar a falha do servidor")
	}
	if !b.Dirty() {
		t.Error("falha no save não pode limpar o dirty")
	}
}
