package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Scorer rates the similarity of two interest queries in [0,1]. It may be
// slow and may fail; callers must tolerate both.
type Scorer interface {
	Score(ctx context.Context, textA, textB string) (float64, error)
}

// HTTPScorer calls the external sentence-similarity service. The service
// embeds both texts and returns their cosine similarity.
type HTTPScorer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPScorer creates an HTTPScorer with a bounded request timeout
func NewHTTPScorer(baseURL string) *HTTPScorer {
	return &HTTPScorer{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type similarityRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

type similarityResponse struct {
	SimilarityScore float64 `json:"similarity_score"`
	Error           string  `json:"error,omitempty"`
}

// Score posts both texts to the similarity service and returns the score
// clamped to [0,1]
func (s *HTTPScorer) Score(ctx context.Context, textA, textB string) (float64, error) {
	body, err := json.Marshal(similarityRequest{Text1: textA, Text2: textB})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal similarity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/similarity", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build similarity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("similarity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("similarity service returned status %d", resp.StatusCode)
	}

	var result similarityResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("invalid similarity response: %w", err)
	}
	if result.Error != "" {
		return 0, fmt.Errorf("similarity service error: %s", result.Error)
	}

	score := result.SimilarityScore
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return score, nil
}
