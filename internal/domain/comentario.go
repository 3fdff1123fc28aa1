package domain

import (
	"time"
)

// Comentario pertence a exatamente uma versão. PosicaoTexto carrega o ID da
// âncora gerada no cliente (atribuída na criação, nunca alterada); nulo para
// comentários gerais e respostas.
type Comentario struct {
	ID           int64     `json:"id" db:"id"`
	VersaoID     int64     `json:"versaoId" db:"versao_id"`
	AutorID      int64     `json:"-" db:"autor_id"`
	Autor        UserRef   `json:"autor" db:"-"`
	Comentario   string    `json:"comentario" db:"comentario"`
	PosicaoTexto *string   `json:"posicaoTexto,omitempty" db:"posicao_texto"`
	Resolvido    bool      `json:"resolvido" db:"resolvido"`
	ParentID     *int64    `json:"parentId,omitempty" db:"parent_id"`
	DataCriacao  time.Time `json:"dataCriacao" db:"data_criacao"`
}

type NovoComentario struct {
	VersaoID     int64  `json:"versaoId"`
	Comentario   string `json:"comentario"`
	PosicaoTexto string `json:"posicaoTexto,omitempty"`
}
