package session

import "tessera/internal/domain"

// StartRoute é a rota inicial derivada do papel do usuário após o login.
func StartRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleProfessor:
		return "/professor/dashboard"
	case domain.RoleAluno:
		return "/aluno/dashboard"
	default:
		return "/login"
	}
}

// StartRoute retorna a rota inicial para a identidade corrente; sessões não
// autenticadas são mandadas para o login.
func (s *Store) StartRoute() string {
	snap := s.Current()
	if !snap.Authenticated {
		return "/login"
	}
	return StartRoute(snap.Identity.Role)
}
