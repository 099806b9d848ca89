package integrity

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hrinsight/internal/domain/readers"
)

// Reader is the subset of readers.Reader the integrity checks need.
type Reader interface {
	IntegrityAssessments(ctx context.Context, period readers.Period, scope readers.Scope) ([]readers.IntegrityAssessment, error)
	IntegrityQuestions(ctx context.Context) ([]readers.IntegrityQuestion, error)
	IntegrityAnswers(ctx context.Context, period readers.Period, scope readers.Scope) ([]readers.IntegrityAnswer, error)
}

type Service struct {
	reader     Reader
	thresholds CoverageThresholds
	logger     *slog.Logger
}

func NewService(reader Reader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reader: reader, thresholds: DefaultCoverageThresholds, logger: logger}
}

func (s *Service) WithThresholds(th CoverageThresholds) *Service {
	s.thresholds = th
	return s
}

// Load gathers the integrity rows for a period and scope concurrently.
func Load(ctx context.Context, reader Reader, period readers.Period, scope readers.Scope) (AuditInput, error) {
	var in AuditInput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.Questions, err = reader.IntegrityQuestions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.Answers, err = reader.IntegrityAnswers(gctx, period, scope)
		return err
	})
	g.Go(func() error {
		var err error
		in.Assessments, err = reader.IntegrityAssessments(gctx, period, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return AuditInput{}, err
	}
	in.Dimensions = Dimensions
	return in, nil
}

func (s *Service) CheckCoverage(ctx context.Context) (CoverageReport, error) {
	in, err := Load(ctx, s.reader, readers.Period{}, readers.Scope{})
	if err != nil {
		return CoverageReport{}, err
	}
	report := CheckCoverage(in, s.thresholds)
	s.logger.Info("integrity coverage checked",
		"questions", report.Summary.TotalQuestions,
		"issues", len(report.Issues),
		"integrity_score", report.IntegrityScore,
	)
	return report, nil
}
