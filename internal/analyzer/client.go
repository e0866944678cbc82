package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pe-insights-go/internal/config"
	"pe-insights-go/internal/logger"
	"pe-insights-go/internal/report"
	"pe-insights-go/internal/types"
)

// Client calls an OpenAI-compatible chat-completions gateway and parses the
// strict-JSON ownership answer out of the completion.
type Client struct {
	gatewayURL string
	model      string
	mock       bool
	http       *http.Client
	log        *logger.Logger
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		gatewayURL: cfg.LLMGatewayURL,
		model:      cfg.LLMModel,
		mock:       cfg.UseMockLLM,
		http:       &http.Client{Timeout: 12 * time.Second},
		log:        logger.New(),
	}
}

// ownershipAnswer is the JSON shape the prompt demands.
type ownershipAnswer struct {
	PublicPrivate     string   `json:"public_private"`
	OwnershipCategory string   `json:"ownership_category"`
	PEOwnerNames      []string `json:"pe_owner_names"`
	Nation            string   `json:"nation"`
	OwnershipSummary  string   `json:"ownership_summary"`
}

// AnalyzeCompany classifies a single company. A gateway or parse failure is
// returned as an error; the caller records it on the row and keeps the batch
// going.
func (c *Client) AnalyzeCompany(ctx context.Context, apiKey, company string, peFirms []string) (types.CompanyRecord, error) {
	log := c.log.WithComponent("analyzer").WithField("company", company)
	if c.mock {
		log.Debug("mock llm enabled, returning canned classification")
		return mockRecord(company), nil
	}
	if c.gatewayURL == "" || apiKey == "" {
		return types.CompanyRecord{}, fmt.Errorf("llm gateway not configured")
	}

	prompt := BuildOwnershipPrompt(company, peFirms)
	reqBody, _ := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.3,
	})

	var answer ownershipAnswer
	var lastErr error
	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, 12*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.gatewayURL, bytes.NewReader(reqBody))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("llm server error %d: %s", resp.StatusCode, truncate(body, 200))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("llm request rejected %d: %s", resp.StatusCode, truncate(body, 200))
			return backoff.Permanent(lastErr)
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("unexpected llm response: %s", truncate(body, 200))
			return lastErr
		}
		if err := decodeJSONObject(parsed.Choices[0].Message.Content, &answer); err != nil {
			lastErr = err
			return lastErr
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 45 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		log.WithError(lastErr).Warn("company analysis failed")
		return types.CompanyRecord{}, fmt.Errorf("analyze %s: %w", company, lastErr)
	}
	log.WithField("category", answer.OwnershipCategory).Info("company classified")

	return report.Normalize(types.CompanyRecord{
		DisplayName:         company,
		OwnershipCategory:   answer.OwnershipCategory,
		Jurisdiction:        answer.Nation,
		OwningFirmNames:     answer.PEOwnerNames,
		PublicPrivateStatus: answer.PublicPrivate,
		OwnershipSummary:    answer.OwnershipSummary,
	}), nil
}

// decodeJSONObject pulls the first {...} block out of a completion that may be
// wrapped in prose or code fences.
func decodeJSONObject(content string, target any) error {
	start := bytes.IndexByte([]byte(content), '{')
	end := bytes.LastIndexByte([]byte(content), '}')
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in completion")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), target); err != nil {
		return fmt.Errorf("decode completion JSON: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// mockRecord gives a deterministic offline answer keyed on the company name,
// enough to demo the whole upload/analyze/explore loop without a gateway.
func mockRecord(company string) types.CompanyRecord {
	rec := types.CompanyRecord{
		DisplayName:         company,
		OwnershipCategory:   "Private (Other)",
		Jurisdiction:        "USA",
		PublicPrivateStatus: "Private",
		OwnershipSummary:    "Mock classification for offline runs.",
	}
	if len(company)%2 == 0 {
		rec.OwnershipCategory = "PE-Owned"
		rec.OwningFirmNames = []string{"Blackstone Group"}
	}
	return report.Normalize(rec)
}
