package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tessera/internal/auth"
	"tessera/internal/domain"
	"tessera/internal/repository"
	"tessera/internal/session"
)

type userStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type refreshStore interface {
	Save(ctx context.Context, token string, sess session.RefreshSession) error
	Delete(ctx context.Context, token string) error
	Rotate(ctx context.Context, oldToken, newToken string) (*session.RefreshSession, error)
}

// RegistroRequest é o corpo do cadastro de um novo usuário
type RegistroRequest struct {
	Nome        string `json:"nome"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Institution string `json:"institution"`
	Role        string `json:"role"`
}

func (r RegistroRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nome, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Username, validation.Required, validation.Length(3, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Role, validation.Required, validation.In(
			string(domain.RoleProfessor), string(domain.RoleAluno))),
	)
}

// AuthResponse é devolvida no login e no refresh
type AuthResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ID           int64       `json:"id"`
	Nome         string      `json:"nome"`
	Username     string      `json:"username"`
	Role         domain.Role `json:"role"`
}

// AuthService cuida de cadastro, login e ciclo de vida dos tokens. Contas
// novas nascem PENDENTE e só autenticam depois da aprovação do administrador.
type AuthService struct {
	users    userStore
	sessions refreshStore
	tokens   *auth.TokenManager
	audit    *AuditService
}

func NewAuthService(users userStore, sessions refreshStore, tokens *auth.TokenManager, audit *AuditService) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, audit: audit}
}

func (s *AuthService) Register(ctx context.Context, req RegistroRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUsuarioExistente
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Nome:        req.Nome,
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hash),
		Institution: req.Institution,
		Role:        domain.Role(req.Role),
		Status:      domain.StatusPendente,
		Enabled:     false,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, user.Username, "REGISTRO", fmt.Sprintf("cadastro pendente de aprovação, papel solicitado %s", user.Role))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCredenciaisInvalidas
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	if !user.PodeAutenticar() {
		return nil, ErrContaInativa
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotaciona o refresh token e emite um novo par de tokens
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	newRefresh := uuid.NewString()
	sess, err := s.sessions.Rotate(ctx, refreshToken, newRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !user.PodeAutenticar() {
		return nil, ErrContaInativa
	}

	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:        accessToken,
		RefreshToken: newRefresh,
		ID:           user.ID,
		Nome:         user.Nome,
		Username:     user.Username,
		Role:         user.Role,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	err = s.sessions.Save(ctx, refreshToken, session.RefreshSession{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ID:           user.ID,
		Nome:         user.Nome,
		Username:     user.Username,
		Role:         user.Role,
	}, nil
}
