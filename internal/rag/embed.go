package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const embeddingBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// EmbeddingClient generates text embeddings with the Gemini batchEmbedContents API.
type EmbeddingClient struct {
	apiKey     string
	model      string
	baseURL    string
	dimensions int
	httpClient *http.Client
}

// NewEmbeddingClient creates a new embedding client. dimensions defaults to 768.
func NewEmbeddingClient(apiKey, model string, dimensions int) *EmbeddingClient {
	if dimensions <= 0 {
		dimensions = 768
	}
	return &EmbeddingClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    embeddingBaseURL,
		dimensions: dimensions,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURL points the client at another endpoint.
func (ec *EmbeddingClient) SetBaseURL(url string) {
	ec.baseURL = strings.TrimRight(url, "/")
}

// --- Gemini embedding request/response types ---

type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

type embedRequest struct {
	Model                string       `json:"model"`
	Content              embedContent `json:"content"`
	TaskType             string       `json:"taskType,omitempty"`
	OutputDimensionality int          `json:"outputDimensionality,omitempty"`
}

type embedContent struct {
	Parts []embedPart `json:"parts"`
}

type embedPart struct {
	Text string `json:"text"`
}

type batchEmbedResponse struct {
	Embeddings []embeddingValues `json:"embeddings"`
}

type embeddingValues struct {
	Values []float32 `json:"values"`
}

// Embed generates embeddings for a batch of texts, in input order.
func (ec *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := batchEmbedRequest{Requests: make([]embedRequest, len(texts))}
	for i, t := range texts {
		reqBody.Requests[i] = embedRequest{
			Model:                "models/" + ec.model,
			Content:              embedContent{Parts: []embedPart{{Text: t}}},
			TaskType:             "SEMANTIC_SIMILARITY",
			OutputDimensionality: ec.dimensions,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:batchEmbedContents", ec.baseURL, ec.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", ec.apiKey)

	resp, err := ec.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var embedResp batchEmbedResponse
	if err := json.Unmarshal(respBody, &embedResp); err != nil {
		return nil, fmt.Errorf("unmarshal embedding response: %w", err)
	}
	if len(embedResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d texts", len(embedResp.Embeddings), len(texts))
	}

	results := make([][]float32, len(texts))
	for i, e := range embedResp.Embeddings {
		results[i] = e.Values
	}

	log.Debug().Int("texts", len(texts)).Msg("Generated embeddings")

	return results, nil
}
