package service

import (
	"errors"
)

var (
	// ErrForbidden: o usuário autenticado não tem vínculo suficiente com o recurso
	ErrForbidden = errors.New("acesso negado")

	// ErrCredenciaisInvalidas cobre usuário inexistente e senha incorreta
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")

	// ErrContaInativa: conta pendente de aprovação, inativa ou bloqueada
	ErrContaInativa = errors.New("conta não está ativa")

	// ErrUsuarioExistente: username ou e-mail já cadastrado
	ErrUsuarioExistente = errors.New("username ou e-mail já cadastrado")

	// ErrMesmaVersao: diff solicitado entre uma versão e ela mesma
	ErrMesmaVersao = errors.New("não é possível comparar uma versão com ela mesma")

	// ErrRespostaAninhada: tentativa de responder a uma resposta
	ErrRespostaAninhada = errors.New("respostas têm apenas um nível")
)
