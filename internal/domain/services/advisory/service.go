package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/risk"
	"github.com/folio-service/folio_service/internal/infrastructure/ai"
	"github.com/folio-service/folio_service/pkg/metrics"
)

// Service enriches the deterministic risk heuristics with generated advisory
// text. The heuristics are computed first and are always the fallback: a
// provider error, timeout, or unparseable response yields the heuristic
// assessment unchanged. Analyze never returns an error.
type Service struct {
	provider ai.Provider
	logger   *zap.Logger
}

// NewService creates a new advisory service. A nil provider disables
// enrichment entirely; every analysis then returns heuristic output.
func NewService(provider ai.Provider, logger *zap.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// advisoryPayload is the JSON object expected inside the generated text
type advisoryPayload struct {
	RiskScore       float64  `json:"riskScore"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`
}

// Analyze assesses a valuated portfolio. The returned assessment always
// carries the heuristic concentration warnings and volatility alerts; the
// score, recommendations, and summary come from the generated advisory when
// it parses, and from the heuristics otherwise.
func (s *Service) Analyze(ctx context.Context, enriched []entities.EnrichedAsset, summary *entities.PortfolioSummary) *entities.RiskAssessment {
	heuristic := risk.Assess(enriched, summary)

	if s.provider == nil || len(enriched) == 0 {
		metrics.AdvisoryCallsTotal.WithLabelValues("fallback").Inc()
		return heuristic
	}

	prompt := buildPrompt(enriched, summary, heuristic)
	text, err := s.provider.Complete(ctx, &ai.CompletionRequest{Prompt: prompt})
	if err != nil {
		s.logger.Warn("advisory generation failed, using heuristics",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		metrics.AdvisoryCallsTotal.WithLabelValues("fallback").Inc()
		return heuristic
	}

	payload, ok := extractPayload(text)
	if !ok {
		s.logger.Warn("advisory response had no parseable JSON, using heuristics",
			zap.String("provider", s.provider.Name()))
		metrics.AdvisoryCallsTotal.WithLabelValues("fallback").Inc()
		return heuristic
	}

	metrics.AdvisoryCallsTotal.WithLabelValues("ai").Inc()
	return merge(heuristic, payload)
}

// merge overlays the generated payload on the heuristic assessment. Missing
// or zero fields keep their heuristic values; warnings and alerts are always
// heuristic since the generator has no authority over them.
func merge(heuristic *entities.RiskAssessment, payload *advisoryPayload) *entities.RiskAssessment {
	result := &entities.RiskAssessment{
		RiskScore:             heuristic.RiskScore,
		ConcentrationWarnings: heuristic.ConcentrationWarnings,
		VolatilityAlerts:      heuristic.VolatilityAlerts,
		Recommendations:       heuristic.Recommendations,
		Summary:               heuristic.Summary,
	}

	if payload.RiskScore > 0 {
		score := int(payload.RiskScore)
		if score > 100 {
			score = 100
		}
		result.RiskScore = score
	}
	if len(payload.Recommendations) > 0 {
		result.Recommendations = payload.Recommendations
	}
	if payload.Summary != "" {
		result.Summary = payload.Summary
	}

	return result
}

// extractPayload finds the JSON object embedded in free text, scanning from
// the first '{' to the last '}'. Generators often wrap the object in prose
// or markdown fences, so a strict whole-body parse would reject valid
// responses.
func extractPayload(text string) (*advisoryPayload, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var payload advisoryPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

func buildPrompt(enriched []entities.EnrichedAsset, summary *entities.PortfolioSummary, heuristic *entities.RiskAssessment) string {
	var b strings.Builder

	b.WriteString("You are a portfolio risk analyst. Analyze this portfolio and respond with a single JSON object ")
	b.WriteString(`of the form {"riskScore": number 0-100, "recommendations": [strings], "summary": string}.`)
	b.WriteString("\n\nPortfolio:\n")
	fmt.Fprintf(&b, "- Total value: %s\n", summary.TotalValue.StringFixed(2))
	fmt.Fprintf(&b, "- Total invested: %s\n", summary.TotalInvested.StringFixed(2))
	fmt.Fprintf(&b, "- Profit/loss: %s (%s%%)\n",
		summary.TotalProfitLoss.StringFixed(2), summary.TotalProfitLossPercent.StringFixed(2))
	fmt.Fprintf(&b, "- Positions: %d\n", summary.AssetCount)

	b.WriteString("\nAllocation by type:\n")
	for _, t := range entities.AllAssetTypes {
		share := summary.Distribution[t]
		if share.Value.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s (%s%%)\n", t, share.Value.StringFixed(2), share.Percent.StringFixed(2))
	}

	b.WriteString("\nHoldings:\n")
	for i := range enriched {
		a := &enriched[i]
		fmt.Fprintf(&b, "- %s: value %s, P/L %s%%\n",
			a.SymbolOrType(), a.TotalValue.StringFixed(2), a.ProfitLossPercent.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nRule-based risk score: %d/100\n", heuristic.RiskScore)
	if len(heuristic.ConcentrationWarnings) > 0 {
		b.WriteString("Concentration warnings:\n")
		for _, w := range heuristic.ConcentrationWarnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if len(heuristic.VolatilityAlerts) > 0 {
		b.WriteString("Volatility alerts:\n")
		for _, a := range heuristic.VolatilityAlerts {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}

	b.WriteString("\nRespond in English with only the JSON object.")
	return b.String()
}
