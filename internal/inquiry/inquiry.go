// Package inquiry accepts contact form submissions. Intake is write-only.
package inquiry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/garnizeh/outreach/pkg/models"
	"github.com/garnizeh/outreach/pkg/repository"
)

// RequiredFields lists the submission fields in the order they are checked.
var RequiredFields = []string{"full_name", "email", "mobile", "subject", "message"}

// MissingFieldError names the first required field that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Missing required field: " + e.Field
}

type Submission struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func (s Submission) field(name string) string {
	switch name {
	case "full_name":
		return s.FullName
	case "email":
		return s.Email
	case "mobile":
		return s.Mobile
	case "subject":
		return s.Subject
	case "message":
		return s.Message
	}
	return ""
}

// Validate returns a *MissingFieldError for the first empty field. Values are
// otherwise opaque; no format checks are made.
func (s Submission) Validate() error {
	for _, f := range RequiredFields {
		if strings.TrimSpace(s.field(f)) == "" {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

// CheckPresence runs the ordered required-field check on a decoded JSON object.
// A field is missing when absent, null or a blank string; values of any other
// type count as present.
func CheckPresence(fields map[string]any) error {
	for _, f := range RequiredFields {
		switch v := fields[f].(type) {
		case nil:
			return &MissingFieldError{Field: f}
		case string:
			if strings.TrimSpace(v) == "" {
				return &MissingFieldError{Field: f}
			}
		}
	}
	return nil
}

type Service struct {
	repo   repository.InquiryRepo
	logger *slog.Logger
}

func NewService(repo repository.InquiryRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Submit(ctx context.Context, sub Submission) (models.Inquiry, error) {
	if err := sub.Validate(); err != nil {
		return models.Inquiry{}, err
	}

	in := models.Inquiry{
		FullName: sub.FullName,
		Email:    sub.Email,
		Mobile:   sub.Mobile,
		Subject:  sub.Subject,
		Message:  sub.Message,
	}
	id, err := s.repo.CreateInquiry(ctx, &in)
	if err != nil {
		return models.Inquiry{}, fmt.Errorf("store inquiry: %w", err)
	}
	in.ID = id

	s.logger.Info("inquiry received", slog.Int64("id", id), slog.String("subject", in.Subject))
	return in, nil
}
