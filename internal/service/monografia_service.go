package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tessera/internal/auth"
	"tessera/internal/domain"
)

type monografiaStore interface {
	Create(ctx context.Context, m *domain.Monografia) error
	GetByID(ctx context.Context, id int64) (*domain.Monografia, error)
	ListByParticipante(ctx context.Context, userID int64) ([]domain.Monografia, error)
	Update(ctx context.Context, m *domain.Monografia) error
}

type userRefStore interface {
	GetRefs(ctx context.Context, ids []int64) (map[int64]domain.UserRef, error)
}

// MonografiaRequest cobre criação e atualização
type MonografiaRequest struct {
	Titulo                string  `json:"titulo"`
	Descricao             string  `json:"descricao"`
	OrientadorPrincipalID int64   `json:"orientadorPrincipalId"`
	CoAutores             []int64 `json:"coAutores"`
	CoOrientadores        []int64 `json:"coOrientadores"`
}

func (r MonografiaRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Titulo, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.Descricao, validation.Length(0, 1000)),
	)
}

type MonografiaService struct {
	monografias monografiaStore
	users       userRefStore
	permissions *PermissionService
}

func NewMonografiaService(monografias monografiaStore, users userRefStore, permissions *PermissionService) *MonografiaService {
	return &MonografiaService{monografias: monografias, users: users, permissions: permissions}
}

// Create registra uma nova monografia com o usuário autenticado como autor
// principal. O orientador principal é obrigatório na criação.
func (s *MonografiaService) Create(ctx context.Context, identity *auth.Identity, req MonografiaRequest) (*domain.Monografia, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.OrientadorPrincipalID == 0 {
		return nil, fmt.Errorf("orientador principal é obrigatório")
	}

	coAutores, err := s.resolveRefs(ctx, req.CoAutores)
	if err != nil {
		return nil, err
	}
	coOrientadores, err := s.resolveRefs(ctx, req.CoOrientadores)
	if err != nil {
		return nil, err
	}

	m := &domain.Monografia{
		Titulo:                req.Titulo,
		Descricao:             req.Descricao,
		AutorPrincipalID:      identity.UserID,
		OrientadorPrincipalID: req.OrientadorPrincipalID,
		CoAutores:             coAutores,
		CoOrientadores:        coOrientadores,
	}

	if err := s.monografias.Create(ctx, m); err != nil {
		return nil, err
	}

	return s.monografias.GetByID(ctx, m.ID)
}

func (s *MonografiaService) Get(ctx context.Context, identity *auth.Identity, id int64) (*domain.Monografia, error) {
	return s.permissions.CheckMonografia(ctx, id, identity, OperationView)
}

func (s *MonografiaService) ListMine(ctx context.Context, identity *auth.Identity) ([]domain.Monografia, error) {
	return s.monografias.ListByParticipante(ctx, identity.UserID)
}

func (s *MonografiaService) Update(ctx context.Context, identity *auth.Identity, id int64, req MonografiaRequest) (*domain.Monografia, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.permissions.CheckMonografia(ctx, id, identity, OperationEdit)
	if err != nil {
		return nil, err
	}

	coAutores, err := s.resolveRefs(ctx, req.CoAutores)
	if err != nil {
		return nil, err
	}
	coOrientadores, err := s.resolveRefs(ctx, req.CoOrientadores)
	if err != nil {
		return nil, err
	}

	m.Titulo = req.Titulo
	m.Descricao = req.Descricao
	m.CoAutores = coAutores
	m.CoOrientadores = coOrientadores

	if err := s.monografias.Update(ctx, m); err != nil {
		return nil, err
	}

	return s.monografias.GetByID(ctx, id)
}

func (s *MonografiaService) resolveRefs(ctx context.Context, ids []int64) ([]domain.UserRef, error) {
	refs, err := s.users.GetRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		ref, ok := refs[id]
		if !ok {
			return nil, fmt.Errorf("usuário %d não encontrado", id)
		}
		out = append(out, ref)
	}
	return out, nil
}
