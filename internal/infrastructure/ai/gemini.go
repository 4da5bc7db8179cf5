package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const geminiAPIURLTemplate = "%s/v1beta/models/%s:generateContent?key=%s"

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiProvider implements Provider for Google's Gemini API
type GeminiProvider struct {
	config  *ProviderConfig
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config *ProviderConfig, logger *zap.Logger) *GeminiProvider {
	rpm := config.RateLimitRPM
	if rpm <= 0 {
		rpm = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)

	return &GeminiProvider{
		config:  config,
		baseURL: defaultGeminiBaseURL,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		logger:  logger,
		limiter: limiter,
	}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Complete generates free text for a single prompt
func (p *GeminiProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	if p.config.APIKey == "" {
		return "", &ProviderError{
			Provider: p.Name(),
			Code:     ErrorCodeAuthentication,
			Message:  "API key not configured",
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return "", &ProviderError{
			Provider:  p.Name(),
			Code:      ErrorCodeRateLimit,
			Message:   "rate limit exceeded",
			Retryable: true,
		}
	}

	body, err := json.Marshal(p.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf(geminiAPIURLTemplate, strings.TrimRight(p.baseURL, "/"), p.config.Model, p.config.APIKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{
			Provider:  p.Name(),
			Code:      ErrorCodeTimeout,
			Message:   err.Error(),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", p.handleHTTPError(resp.StatusCode, respBody)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	text := geminiResp.text()
	if text == "" {
		return "", &ProviderError{
			Provider: p.Name(),
			Code:     ErrorCodeUnavailable,
			Message:  "empty completion",
		}
	}

	p.logger.Debug("Gemini completion successful",
		zap.String("model", p.config.Model),
		zap.Duration("duration", time.Since(start)))

	return text, nil
}

func (p *GeminiProvider) buildRequest(req *CompletionRequest) map[string]interface{} {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]string{
					{"text": req.Prompt},
				},
			},
		},
	}

	genConfig := make(map[string]interface{})
	if req.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = req.MaxTokens
	} else if p.config.MaxTokens > 0 {
		genConfig["maxOutputTokens"] = p.config.MaxTokens
	}
	if req.Temperature > 0 {
		genConfig["temperature"] = req.Temperature
	} else if p.config.Temperature > 0 {
		genConfig["temperature"] = p.config.Temperature
	}
	if len(genConfig) > 0 {
		body["generationConfig"] = genConfig
	}

	return body
}

func (p *GeminiProvider) handleHTTPError(statusCode int, body []byte) error {
	var errorResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &errorResp)

	provErr := &ProviderError{
		Provider: p.Name(),
		Message:  errorResp.Error.Message,
	}
	if provErr.Message == "" {
		provErr.Message = fmt.Sprintf("HTTP %d", statusCode)
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		provErr.Code = ErrorCodeRateLimit
		provErr.Retryable = true
	case http.StatusUnauthorized, http.StatusForbidden:
		provErr.Code = ErrorCodeAuthentication
	case http.StatusBadRequest:
		provErr.Code = ErrorCodeInvalidRequest
	case http.StatusInternalServerError, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		provErr.Code = ErrorCodeServerError
		provErr.Retryable = true
	default:
		provErr.Code = ErrorCodeUnavailable
	}

	p.logger.Warn("Gemini API error",
		zap.Int("status_code", statusCode),
		zap.String("error_status", errorResp.Error.Status),
		zap.String("error_message", errorResp.Error.Message))

	return provErr
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (r *geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String()
}
