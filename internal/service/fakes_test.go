package service

import (
	"context"
	"fmt"

	"tessera/internal/auth"
	"tessera/internal/domain"
	"tessera/internal/repository"
)

func identidade(userID int64, role domain.Role) *auth.Identity {
	return &auth.Identity{
		UserID:   userID,
		Nome:     fmt.Sprintf("Usuário %d", userID),
		Username: fmt.Sprintf("user%d", userID),
		Role:     role,
	}
}

type fakeMonografiaGetter struct {
	monografias map[int64]*domain.Monografia
}

func (f *fakeMonografiaGetter) GetByID(_ context.Context, id int64) (*domain.Monografia, error) {
	m, ok := f.monografias[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

type fakeVersaoStore struct {
	versoes map[int64]*domain.Versao
	lista   []domain.Versao
	count   int64
	nextID  int64
}

func (f *fakeVersaoStore) Create(_ context.Context, v *domain.Versao) error {
	f.nextID++
	v.ID = f.nextID
	if f.versoes == nil {
		f.versoes = make(map[int64]*domain.Versao)
	}
	cp := *v
	f.versoes[v.ID] = &cp
	return nil
}

func (f *fakeVersaoStore) GetByID(_ context.Context, id int64) (*domain.Versao, error) {
	v, ok := f.versoes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVersaoStore) ListByMonografia(_ context.Context, _ int64) ([]domain.Versao, error) {
	out := make([]domain.Versao, len(f.lista))
	copy(out, f.lista)
	return out, nil
}

func (f *fakeVersaoStore) CountByMonografia(_ context.Context, _ int64) (int64, error) {
	return f.count, nil
}

type fakeUserRefStore struct{}

func (fakeUserRefStore) GetRefs(_ context.Context, ids []int64) (map[int64]domain.UserRef, error) {
	refs := make(map[int64]domain.UserRef, len(ids))
	for _, id := range ids {
		refs[id] = domain.UserRef{
			ID:       id,
			Nome:     fmt.Sprintf("Usuário %d", id),
			Username: fmt.Sprintf("user%d", id),
		}
	}
	return refs, nil
}

type fakeComentarioStore struct {
	comentarios map[int64]*domain.Comentario
	nextID      int64
}

func newFakeComentarioStore() *fakeComentarioStore {
	return &fakeComentarioStore{comentarios: make(map[int64]*domain.Comentario)}
}

func (f *fakeComentarioStore) Create(_ context.Context, c *domain.Comentario) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.comentarios[c.ID] = &cp
	return nil
}

func (f *fakeComentarioStore) GetByID(_ context.Context, id int64) (*domain.Comentario, error) {
	c, ok := f.comentarios[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComentarioStore) ListByVersao(_ context.Context, versaoID int64) ([]domain.Comentario, error) {
	var out []domain.Comentario
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.comentarios[id]; ok && c.VersaoID == versaoID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComentarioStore) UpdateResolvido(_ context.Context, id int64, resolvido bool) error {
	c, ok := f.comentarios[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Resolvido = resolvido
	return nil
}

// Delete replica a cascata do banco: respostas caem junto com o pai.
func (f *fakeComentarioStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.comentarios[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.comentarios, id)
	for cid, c := range f.comentarios {
		if c.ParentID != nil && *c.ParentID == id {
			delete(f.comentarios, cid)
		}
	}
	return nil
}

type fakeAuditRepo struct {
	entries []domain.AuditLog
}

func (f *fakeAuditRepo) Insert(_ context.Context, entry *domain.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) ListRecent(_ context.Context, _ int) ([]domain.AuditLog, error) {
	return f.entries, nil
}
