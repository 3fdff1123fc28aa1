package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tessera/internal/domain"
	"tessera/pkg/versaoclient"
)

// Client acessa os comentários de uma versão no servidor. Toda mutação é
// seguida de um recarregamento completo da lista pelo chamador; nenhum patch
// otimista é aplicado localmente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      versaoclient.TokenFunc
}

func NewClient(baseURL string, token versaoclient.TokenFunc) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
}

// ListByVersao retorna todos os comentários da versão, respostas incluídas.
func (c *Client) ListByVersao(ctx context.Context, versaoID int64) ([]domain.Comentario, error) {
	var comentarios []domain.Comentario
	path := fmt.Sprintf("/api/comentarios/versao/%d", versaoID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &comentarios); err != nil {
		return nil, err
	}
	return comentarios, nil
}

// Criar persiste um comentário, ancorado quando posicaoTexto não é vazio.
func (c *Client) Criar(ctx context.Context, req domain.NovoComentario) (*domain.Comentario, error) {
	var comentario domain.Comentario
	if err := c.doJSON(ctx, http.MethodPost, "/api/comentarios", req, &comentario); err != nil {
		return nil, err
	}
	return &comentario, nil
}

// Responder cria uma resposta de um nível ao comentário.
func (c *Client) Responder(ctx context.Context, comentarioID int64, texto string) (*domain.Comentario, error) {
	body := map[string]string{"comentario": texto}
	var comentario domain.Comentario
	path := fmt.Sprintf("/api/comentarios/%d/responder", comentarioID)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &comentario); err != nil {
		return nil, err
	}
	return &comentario, nil
}

// Resolver marca ou desmarca o comentário como resolvido.
func (c *Client) Resolver(ctx context.Context, comentarioID int64, resolvido bool) (*domain.Comentario, error) {
	body := map[string]bool{"resolvido": resolvido}
	var comentario domain.Comentario
	path := fmt.Sprintf("/api/comentarios/%d/resolver", comentarioID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &comentario); err != nil {
		return nil, err
	}
	return &comentario, nil
}

// Excluir remove o comentário; as respostas caem em cascata no servidor.
func (c *Client) Excluir(ctx context.Context, comentarioID int64) error {
	path := fmt.Sprintf("/api/comentarios/%d", comentarioID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", versaoclient.ErrFalhaTransporte, err)
	}
	defer resp.Body.Close()

	if err := versaoclient.ErrorFromResponse(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
