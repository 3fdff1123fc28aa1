package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound é devolvido quando a linha solicitada não existe
var ErrNotFound = errors.New("registro não encontrado")

func wrapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
