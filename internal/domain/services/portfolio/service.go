package portfolio

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folio-service/folio_service/internal/domain/entities"
	"github.com/folio-service/folio_service/internal/domain/services/advisory"
	"github.com/folio-service/folio_service/internal/domain/services/valuation"
	"github.com/folio-service/folio_service/internal/infrastructure/repositories"
)

// Overview is a fully valuated portfolio: every position enriched with its
// current price plus the aggregate summary.
type Overview struct {
	Assets  []entities.EnrichedAsset   `json:"assets"`
	Summary *entities.PortfolioSummary `json:"summary"`
}

// Service computes portfolio views for a user. It loads positions across
// all accounts, runs one batch valuation, and optionally enriches the risk
// assessment with generated advisory text.
type Service struct {
	assets    *repositories.AssetRepository
	valuation *valuation.Service
	advisory  *advisory.Service
	logger    *zap.Logger
}

// NewService creates a new portfolio service
func NewService(
	assets *repositories.AssetRepository,
	valuationSvc *valuation.Service,
	advisorySvc *advisory.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		assets:    assets,
		valuation: valuationSvc,
		advisory:  advisorySvc,
		logger:    logger,
	}
}

// Overview valuates a user's whole portfolio across all accounts
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	rows, err := s.assets.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	positions := make([]entities.Asset, len(rows))
	for i := range rows {
		positions[i] = rows[i].Asset
	}

	enriched, summary := s.valuation.Valuate(ctx, positions)
	for i := range enriched {
		enriched[i].AccountName = rows[i].AccountName
	}

	return &Overview{Assets: enriched, Summary: summary}, nil
}

// Analyze valuates a user's portfolio and returns its risk assessment,
// advisory-enriched when the generator is available
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID) (*entities.RiskAssessment, error) {
	overview, err := s.Overview(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.advisory.Analyze(ctx, overview.Assets, overview.Summary), nil
}
