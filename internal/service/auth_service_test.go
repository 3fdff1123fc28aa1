package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tessera/internal/auth"
	"tessera/internal/domain"
	"tessera/internal/repository"
	"tessera/internal/session"
)

type fakeUserStore struct {
	users  map[string]*domain.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.Username] = &cp
	return nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeRefreshStore struct {
	sessions map[string]session.RefreshSession
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{sessions: make(map[string]session.RefreshSession)}
}

func (f *fakeRefreshStore) Save(_ context.Context, token string, sess session.RefreshSession) error {
	f.sessions[token] = sess
	return nil
}

func (f *fakeRefreshStore) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeRefreshStore) Rotate(_ context.Context, oldToken, newToken string) (*session.RefreshSession, error) {
	sess, ok := f.sessions[oldToken]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	delete(f.sessions, oldToken)
	f.sessions[newToken] = sess
	return &sess, nil
}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeRefreshStore) {
	users := newFakeUserStore()
	sessions := newFakeRefreshStore()
	tm := auth.NewTokenManager("test-secret", time.Minute)
	svc := NewAuthService(users, sessions, tm, NewAuditService(&fakeAuditRepo{}))
	return svc, users, sessions
}

func registroValido() RegistroRequest {
	return RegistroRequest{
		Nome:        "Maria Silva",
		Username:    "maria",
		Email:       "maria@example.edu",
		Password:    "senha-segura",
		Institution: "UFX",
		Role:        string(domain.RoleAluno),
	}
}

func ativaConta(users *fakeUserStore, username string) {
	u := users.users[username]
	u.Status = domain.StatusAtivo
	u.Enabled = true
}

func TestRegisterContaNascePendente(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), registroValido())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Status != domain.StatusPendente || user.Enabled {
		t.Errorf("conta nova: status=%s enabled=%v, want PENDENTE/false", user.Status, user.Enabled)
	}
	if user.Password == "senha-segura" {
		t.Error("senha armazenada em claro")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("senha-segura")); err != nil {
		t.Errorf("hash da senha não confere: %v", err)
	}
}

func TestRegisterDuplicado(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registroValido()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, registroValido()); !errors.Is(err, ErrUsuarioExistente) {
		t.Fatalf("Register() duplicado: error = %v, want ErrUsuarioExistente", err)
	}
}

func TestRegisterNaoAceitaAdmin(t *testing.T) {
	svc, _, _ := newAuthFixture()

	req := registroValido()
	req.Role = string(domain.RoleAdmin)
	if _, err := svc.Register(context.Background(), req); err == nil {
		t.Fatal("Register() com papel ADMIN deveria falhar na validação")
	}
}

func TestLoginContaPendente(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	svc.Register(ctx, registroValido())

	if _, err := svc.Login(ctx, "maria", "senha-segura"); !errors.Is(err, ErrContaInativa) {
		t.Fatalf("Login() com conta pendente: error = %v, want ErrContaInativa", err)
	}
}

func TestLogin(t *testing.T) {
	svc, users, sessions := newAuthFixture()
	ctx := context.Background()

	svc.Register(ctx, registroValido())
	ativaConta(users, "maria")

	resp, err := svc.Login(ctx, "maria", "senha-segura")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if resp.Token == "" || resp.RefreshToken == "" {
		t.Error("Login() sem tokens")
	}
	if resp.Username != "maria" || resp.Role != domain.RoleAluno {
		t.Errorf("resposta = %+v", resp)
	}
	if _, ok := sessions.sessions[resp.RefreshToken]; !ok {
		t.Error("refresh token não foi registrado na sessão")
	}
}

func TestLoginSenhaErrada(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	svc.Register(ctx, registroValido())
	ativaConta(users, "maria")

	if _, err := svc.Login(ctx, "maria", "senha-errada"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("Login() error = %v, want ErrCredenciaisInvalidas", err)
	}
	if _, err := svc.Login(ctx, "inexistente", "qualquer"); !errors.Is(err, ErrCredenciaisInvalidas) {
		t.Fatalf("Login() usuário inexistente: error = %v, want ErrCredenciaisInvalidas", err)
	}
}

func TestRefreshRotacionaToken(t *testing.T) {
	svc, users, sessions := newAuthFixture()
	ctx := context.Background()

	svc.Register(ctx, registroValido())
	ativaConta(users, "maria")

	login, err := svc.Login(ctx, "maria", "senha-segura")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	resp, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if resp.RefreshToken == login.RefreshToken {
		t.Error("refresh token não foi rotacionado")
	}

	// O token antigo deixa de valer
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("Refresh() com token antigo: error = %v, want ErrSessionNotFound", err)
	}

	if _, ok := sessions.sessions[resp.RefreshToken]; !ok {
		t.Error("novo refresh token não está na sessão")
	}
}

func TestLogout(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	svc.Register(ctx, registroValido())
	ativaConta(users, "maria")
	login, _ := svc.Login(ctx, "maria", "senha-segura")

	if err := svc.Logout(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("Refresh() após logout: error = %v, want ErrSessionNotFound", err)
	}
}
