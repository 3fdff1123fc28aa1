package domain

import (
	"time"
)

// Versao é um snapshot imutável do conteúdo de uma monografia. Versões são
// apenas criadas; não há caminho de atualização ou exclusão.
type Versao struct {
	ID             int64     `json:"id" db:"id"`
	MonografiaID   int64     `json:"monografiaId" db:"monografia_id"`
	NumeroVersao   string    `json:"numeroVersao" db:"numero_versao"`
	HashArquivo    string    `json:"hashArquivo" db:"hash_arquivo"`
	NomeArquivo    string    `json:"nomeArquivo" db:"nome_arquivo"`
	CaminhoArquivo string    `json:"-" db:"caminho_arquivo"`
	MensagemCommit string    `json:"mensagemCommit" db:"mensagem_commit"`
	Tag            *string   `json:"tag,omitempty" db:"tag"`
	CriadoPorID    int64     `json:"-" db:"criado_por_id"`
	CriadoPor      UserRef   `json:"criadoPor" db:"-"`
	DataCriacao    time.Time `json:"dataCriacao" db:"data_criacao"`
	TamanhoArquivo int64     `json:"tamanhoArquivo" db:"tamanho_arquivo"`
}

type NovaVersao struct {
	MonografiaID   int64  `json:"monografiaId"`
	Conteudo       string `json:"conteudo"`
	MensagemCommit string `json:"mensagemCommit"`
	Tag            string `json:"tag,omitempty"`
}
