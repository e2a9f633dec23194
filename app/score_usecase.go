package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/citescan/domain"
)

// ScoreUseCase orchestrates the batch scoring workflow
type ScoreUseCase struct {
	service    domain.ScoringService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewScoreUseCase creates a new score use case
func NewScoreUseCase(service domain.ScoringService, formatter domain.OutputFormatter) *ScoreUseCase {
	return &ScoreUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Execute collects the content files of the request, scores them and writes the report
// when a formatter is configured
func (uc *ScoreUseCase) Execute(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInvalidInput, "failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewValidationError("no markdown or HTML files found in the specified paths")
	}

	req.Paths = files

	response, err := uc.service.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	if uc.formatter != nil {
		if err := uc.writeOutput(response, req); err != nil {
			return response, err
		}
	}

	return response, nil
}

// writeOutput writes to OutputPath when set, otherwise to OutputWriter, otherwise to stdout
func (uc *ScoreUseCase) writeOutput(response *domain.ScoreResponse, req domain.ScoreRequest) error {
	var writer io.Writer = os.Stdout
	if req.OutputWriter != nil {
		writer = req.OutputWriter
	}

	if req.OutputPath != "" {
		f, err := os.Create(req.OutputPath)
		if err != nil {
			return domain.NewOutputError(fmt.Sprintf("failed to create %s", req.OutputPath), err)
		}
		defer f.Close()
		writer = f
	}

	format := req.OutputFormat
	if format == "" {
		format = domain.OutputFormatText
	}
	return uc.formatter.Write(response, format, writer)
}

// validateRequest validates the score request
func (uc *ScoreUseCase) validateRequest(req domain.ScoreRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	if req.TopGaps < -1 {
		return fmt.Errorf("top gaps must be -1 (all) or greater")
	}

	return nil
}

// ScoreUseCaseBuilder provides a builder pattern for creating ScoreUseCase
type ScoreUseCaseBuilder struct {
	service    domain.ScoringService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewScoreUseCaseBuilder creates a new builder
func NewScoreUseCaseBuilder() *ScoreUseCaseBuilder {
	return &ScoreUseCaseBuilder{}
}

// WithService sets the scoring service
func (b *ScoreUseCaseBuilder) WithService(service domain.ScoringService) *ScoreUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ScoreUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ScoreUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *ScoreUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ScoreUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ScoreUseCase with the configured dependencies
func (b *ScoreUseCaseBuilder) Build() (*ScoreUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("scoring service is required")
	}

	uc := &ScoreUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
