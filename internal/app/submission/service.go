package submission

import (
	"context"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"compassai/internal/domain"
	"compassai/internal/ui"
)

// Client is the subset of the REST SDK used to submit tools.
type Client interface {
	SubmitApplication(ctx context.Context, req domain.ApplicationRequest) (domain.ApplicationCreated, error)
	UploadLogo(ctx context.Context, filename string, content io.Reader) (domain.LogoUpload, error)
}

// LogoFile is an optional logo to upload before submitting.
type LogoFile struct {
	Name    string
	Content io.Reader
}

// Result is a successful submission.
type Result struct {
	ApplicationID int64
	Request       domain.ApplicationRequest
	Message       string
}

type Service struct {
	client Client
	logger *zap.Logger
}

func NewService(client Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger.Named("submission")}
}

// Submit validates the form, uploads the logo when given and files the
// application. Invalid input issues no request.
func (s *Service) Submit(ctx context.Context, form Form, logo *LogoFile) (Result, error) {
	if err := domain.Validation(form.Validate()); err != nil {
		return Result{}, err
	}

	if logo != nil && logo.Content != nil {
		uploaded, err := s.client.UploadLogo(ctx, filepath.Base(logo.Name), logo.Content)
		if err != nil {
			s.logger.Warn("logo upload failed", zap.String("file", logo.Name), zap.Error(err))
			return Result{}, submitError("upload logo", err, FieldLogo, LogoFailedText)
		}
		form.Logo = uploaded.URL
	}

	req := form.Request()
	created, err := s.client.SubmitApplication(ctx, req)
	if err != nil {
		s.logger.Warn("submit failed", zap.String("name", req.Name), zap.Error(err))
		return Result{}, submitError("submit application", err, domain.RootField, SubmitFailedText)
	}
	s.logger.Info("application submitted", zap.Int64("id", created.ApplicationID))
	return Result{ApplicationID: created.ApplicationID, Request: req, Message: SubmittedText}, nil
}

func submitError(op string, err error, field, fallback string) error {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	message := ui.MapError(err, fallback)
	return domain.E(code, op, message, domain.Rejected(err, domain.FieldErrors{field: message}))
}
