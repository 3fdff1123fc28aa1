// Package versaoclient é o cliente do registro de versões: histórico
// ordenado, conteúdo bruto, criação de snapshots e diff entre duas versões.
package versaoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"tessera/internal/domain"
)

var (
	// ErrMesmaVersao é devolvido localmente por Diff antes de qualquer
	// requisição quando base e nova são a mesma versão.
	ErrMesmaVersao = errors.New("não é possível comparar uma versão com ela mesma")

	ErrNaoAutorizado   = errors.New("sessão expirada ou inválida")
	ErrAcessoNegado    = errors.New("acesso negado")
	ErrNaoEncontrado   = errors.New("recurso não encontrado")
	ErrFalhaTransporte = errors.New("falha de comunicação com o servidor")
)

// APIError carrega a mensagem enviada pelo servidor junto do status HTTP.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("erro do servidor (HTTP %d)", e.Status)
}

// TokenFunc fornece o bearer corrente; o cliente não gerencia autenticação.
type TokenFunc func() string

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenFunc
}

func NewClient(baseURL string, token TokenFunc) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
}

// ListVersoes retorna o histórico da monografia, mais recente primeiro.
func (c *Client) ListVersoes(ctx context.Context, monografiaID int64) ([]domain.Versao, error) {
	var versoes []domain.Versao
	path := fmt.Sprintf("/api/versoes/monografia/%d", monografiaID)
	if err := c.getJSON(ctx, path, &versoes); err != nil {
		return nil, err
	}
	return versoes, nil
}

// GetVersao retorna os metadados de uma versão.
func (c *Client) GetVersao(ctx context.Context, versaoID int64) (*domain.Versao, error) {
	var versao domain.Versao
	path := fmt.Sprintf("/api/versoes/%d", versaoID)
	if err := c.getJSON(ctx, path, &versao); err != nil {
		return nil, err
	}
	return &versao, nil
}

// GetConteudo retorna o conteúdo bruto armazenado, sem interpretação local.
func (c *Client) GetConteudo(ctx context.Context, versaoID int64) (string, error) {
	path := fmt.Sprintf("/api/versoes/%d/conteudo", versaoID)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFalhaTransporte, err)
	}
	return string(body), nil
}

// CriarVersao persiste um novo snapshot imutável. O cliente não atualiza
// listas locais; quem chamou deve recarregar o histórico.
func (c *Client) CriarVersao(ctx context.Context, req domain.NovaVersao) (*domain.Versao, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/versoes", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var versao domain.Versao
	if err := json.NewDecoder(resp.Body).Decode(&versao); err != nil {
		return nil, fmt.Errorf("failed to decode version: %w", err)
	}
	return &versao, nil
}

// Diff compara duas versões. IDs iguais falham localmente com ErrMesmaVersao,
// sem requisição.
func (c *Client) Diff(ctx context.Context, versaoBaseID, versaoNovaID int64) (*domain.DiffResponse, error) {
	if versaoBaseID == versaoNovaID {
		return nil, ErrMesmaVersao
	}

	var diff domain.DiffResponse
	path := fmt.Sprintf("/api/versoes/diff?versaoBaseId=%d&versaoNovaId=%d", versaoBaseID, versaoNovaID)
	if err := c.getJSON(ctx, path, &diff); err != nil {
		return nil, err
	}
	return &diff, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
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
		return nil, fmt.Errorf("%w: %v", ErrFalhaTransporte, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	return ErrorFromResponse(resp)
}

// ErrorFromResponse mapeia o status HTTP para os erros sentinela, preservando
// a mensagem do servidor quando houver. Compartilhado pelos demais clientes
// da API.
func ErrorFromResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var body struct {
		Message string `json:"message"`
	}
	json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrNaoAutorizado
	case http.StatusForbidden:
		return ErrAcessoNegado
	case http.StatusNotFound:
		return ErrNaoEncontrado
	}
	return &APIError{Status: resp.StatusCode, Message: body.Message}
}
