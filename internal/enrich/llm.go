// Package enrich calls the external LLM to score candidates against an
// opening and to suggest interview questions. The remote call is fallible;
// Enricher converts every failure into a fixed degraded result so the rest
// of the service never observes a hard error from this collaborator.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"youngtalents/pipeline-service/internal/model"
)

// LLMConfig selects the chat-completions endpoint and model.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// LLMClient implements Analyzer over an OpenAI-compatible chat API.
type LLMClient struct {
	cfg    LLMConfig
	client *http.Client
}

// NewLLMClient fills config defaults and returns a client. Pass nil to use
// a 30s-timeout HTTP client.
func NewLLMClient(cfg LLMConfig, httpClient *http.Client) *LLMClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &LLMClient{cfg: cfg, client: httpClient}
}

// Analyze scores the candidate against the job, 0–100 with a short pt-BR
// summary.
func (c *LLMClient) Analyze(ctx context.Context, cand model.Candidate, job model.Job) (Analysis, error) {
	raw, err := c.complete(ctx, analysisPrompt(cand, job))
	if err != nil {
		return Analysis{}, err
	}

	var payload struct {
		Score   int    `json:"score"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Analysis{}, fmt.Errorf("parse analysis response: %w", err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return Analysis{}, fmt.Errorf("analysis response missing summary")
	}
	return Analysis{Score: clampScore(payload.Score), Summary: payload.Summary}, nil
}

// SuggestQuestions returns interview questions tailored to the candidate.
func (c *LLMClient) SuggestQuestions(ctx context.Context, cand model.Candidate, job model.Job) ([]string, error) {
	raw, err := c.complete(ctx, questionsPrompt(cand, job))
	if err != nil {
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("parse questions response: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("questions response empty")
	}
	return questions, nil
}

func (c *LLMClient) complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", fmt.Errorf("llm api key missing")
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "Você é um recrutador de RH especialista da Young Empreendimentos (Young Talents). Responda somente com JSON válido."},
			{Role: "user", Content: prompt},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("llm http %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if len(body.Choices) == 0 || body.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("llm response empty")
	}
	return strings.TrimSpace(body.Choices[0].Message.Content), nil
}

func analysisPrompt(cand model.Candidate, job model.Job) string {
	var b strings.Builder
	b.WriteString("Analise o candidato em relação à vaga e retorne um objeto JSON com 'score' (inteiro de 0-100 indicando a aderência à vaga) e 'summary' (string de no máximo 60 palavras em Português do Brasil, resumindo pontos fortes e fracos).\n\n")
	b.WriteString("Perfil do Candidato:\n")
	fmt.Fprintf(&b, "Nome: %s\n", cand.Name)
	fmt.Fprintf(&b, "Habilidades/Formação: %s\n", strings.Join(cand.Skills, ", "))
	fmt.Fprintf(&b, "Experiência: %s\n", orUnknown(cand.Experience))
	fmt.Fprintf(&b, "Educação: %s\n", orUnknown(cand.Education))
	fmt.Fprintf(&b, "Resumo Pessoal: %s\n", orUnknown(cand.AboutMe))
	fmt.Fprintf(&b, "Vaga Aplicada: %s\n\n", cand.Role)
	b.WriteString("Descrição da Vaga:\n")
	fmt.Fprintf(&b, "Título: %s\n", job.Title)
	fmt.Fprintf(&b, "Descrição: %s\n", job.Description)
	fmt.Fprintf(&b, "Requisitos: %s\n", strings.Join(job.Requirements, ", "))
	return b.String()
}

func questionsPrompt(cand model.Candidate, job model.Job) string {
	return fmt.Sprintf(
		"Gere 3 perguntas de entrevista específicas, técnicas e comportamentais para %s que está se candidatando para %s. Foque nas habilidades mencionadas: %s. Retorne apenas um array JSON simples de strings em Português do Brasil.",
		cand.Name, job.Title, strings.Join(cand.Skills, ", "))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Não informado"
	}
	return s
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
