// tesseractl exercita a API a partir da linha de comando: login, histórico
// de versões, conteúdo, diff e comentários.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tessera/pkg/anchor"
	"tessera/pkg/diffview"
	"tessera/pkg/versaoclient"
)

var (
	serverURL string
	token     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "tesseractl",
		Short:        "Cliente de linha de comando do Sistema Acadêmico",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("TESSERA_SERVER", "http://localhost:8080"), "endereço do servidor")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("TESSERA_TOKEN"), "token de acesso (ou TESSERA_TOKEN)")

	rootCmd.AddCommand(loginCmd(), versoesCmd(), comentariosCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func tokenFunc() versaoclient.TokenFunc {
	return func() string { return token }
}

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Autentica e imprime os tokens da sessão",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, _ := json.Marshal(map[string]string{
				"username": username,
				"password": password,
			})

			httpClient := &http.Client{Timeout: 30 * time.Second}
			resp, err := httpClient.Post(serverURL+"/api/auth/login", "application/json", bytes.NewReader(payload))
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if err := versaoclient.ErrorFromResponse(resp); err != nil {
				return err
			}

			var auth struct {
				Token        string `json:"token"`
				RefreshToken string `json:"refreshToken"`
				Nome         string `json:"nome"`
				Role         string `json:"role"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
				return err
			}

			fmt.Printf("Autenticado como %s (%s)\n", auth.Nome, auth.Role)
			fmt.Printf("export TESSERA_TOKEN=%s\n", auth.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "nome de usuário")
	cmd.Flags().StringVarP(&password, "password", "p", "", "senha")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func versoesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versoes",
		Short: "Consulta o histórico de versões de uma monografia",
	}

	list := &cobra.Command{
		Use:   "list <monografiaId>",
		Short: "Lista as versões, mais recente primeiro",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			monografiaID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("monografiaId inválido: %s", args[0])
			}

			client := versaoclient.NewClient(serverURL, tokenFunc())
			versoes, err := client.ListVersoes(cmd.Context(), monografiaID)
			if err != nil {
				return err
			}

			for _, v := range versoes {
				tag := ""
				if v.Tag != nil {
					tag = " [" + *v.Tag + "]"
				}
				fmt.Printf("%d\tv%s%s\t%s\t%s\t%s\n",
					v.ID, v.NumeroVersao, tag,
					v.DataCriacao.Format("2006-01-02 15:04"),
					v.CriadoPor.Nome, v.MensagemCommit)
			}
			return nil
		},
	}

	conteudo := &cobra.Command{
		Use:   "conteudo <versaoId>",
		Short: "Imprime o conteúdo bruto de uma versão",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versaoID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("versaoId inválido: %s", args[0])
			}

			client := versaoclient.NewClient(serverURL, tokenFunc())
			conteudo, err := client.GetConteudo(cmd.Context(), versaoID)
			if err != nil {
				return err
			}

			fmt.Println(conteudo)
			return nil
		},
	}

	var asHTML bool
	diff := &cobra.Command{
		Use:   "diff <versaoBaseId> <versaoNovaId>",
		Short: "Compara duas versões",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("versaoBaseId inválido: %s", args[0])
			}
			novaID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("versaoNovaId inválido: %s", args[1])
			}

			client := versaoclient.NewClient(serverURL, tokenFunc())
			resp, err := client.Diff(cmd.Context(), baseID, novaID)
			if err != nil {
				return err
			}

			if asHTML {
				fmt.Println(diffview.Render(resp))
				return nil
			}

			fmt.Printf("+%d -%d ~%d\n", resp.Added, resp.Removed, resp.Modified)
			for _, seg := range resp.Diffs {
				switch {
				case seg.Added:
					fmt.Printf("+ %s\n", seg.Value)
				case seg.Removed:
					fmt.Printf("- %s\n", seg.Value)
				default:
					fmt.Printf("  %s\n", seg.Value)
				}
			}
			return nil
		},
	}
	diff.Flags().BoolVar(&asHTML, "html", false, "imprime o diff renderizado em HTML")

	cmd.AddCommand(list, conteudo, diff)
	return cmd
}

func comentariosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comentarios",
		Short: "Consulta os comentários de uma versão",
	}

	var filtro, ordem string
	list := &cobra.Command{
		Use:   "list <versaoId>",
		Short: "Lista as threads de comentários",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versaoID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("versaoId inválido: %s", args[0])
			}

			client := anchor.NewClient(serverURL, tokenFunc())
			comentarios, err := client.ListByVersao(cmd.Context(), versaoID)
			if err != nil {
				return err
			}

			comentarios = anchor.Filtrar(comentarios, anchor.Filtro(filtro), "")
			comentarios = anchor.Ordenar(comentarios, anchor.Ordem(ordem))

			for _, t := range anchor.Threads(comentarios) {
				c := t.Comentario
				status := " "
				if c.Resolvido {
					status = "✓"
				}
				fmt.Printf("[%s] #%d %s (%s): %s\n", status, c.ID, c.Autor.Nome,
					c.DataCriacao.Format("2006-01-02 15:04"), c.Comentario)
				for _, r := range t.Respostas {
					fmt.Printf("      ↳ #%d %s: %s\n", r.ID, r.Autor.Nome, r.Comentario)
				}
			}
			return nil
		},
	}
	list.Flags().StringVar(&filtro, "filtro", string(anchor.FiltroTodos), "todos | nao-resolvidos | resolvidos")
	list.Flags().StringVar(&ordem, "ordem", string(anchor.OrdemRecentes), "recentes | antigos")

	cmd.AddCommand(list)
	return cmd
}
