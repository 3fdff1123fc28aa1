package service

import (
	"context"
	"log"

	"tessera/internal/domain"
)

type auditInserter interface {
	Insert(ctx context.Context, entry *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// AuditService registra ações administrativas e de versionamento. Falha de
// auditoria nunca derruba a operação principal; fica só no log.
type AuditService struct {
	repo auditInserter
}

func NewAuditService(repo auditInserter) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Record(ctx context.Context, username, action, details string) {
	entry := &domain.AuditLog{
		Username: username,
		Action:   action,
		Details:  details,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		log.Printf("[Audit] Failed to record %s by %s: %v", action, username, err)
	}
}

func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecent(ctx, limit)
}
