package inquiry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/garnizeh/outreach/internal/inquiry"
	"github.com/garnizeh/outreach/pkg/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() inquiry.Submission {
	return inquiry.Submission{
		FullName: "Jane Doe",
		Email:    "not-even-an-email",
		Mobile:   "12345",
		Subject:  "Donations",
		Message:  "Where can I donate?",
	}
}

func TestSubmit_Success(t *testing.T) {
	m := mock.NewMocks()
	svc := inquiry.NewService(m.InquiryRepo, nil)

	seen := map[int64]bool{}
	for range 3 {
		got, err := svc.Submit(context.Background(), validSubmission())
		require.NoError(t, err)
		assert.Positive(t, got.ID)
		assert.False(t, seen[got.ID], "id reused")
		seen[got.ID] = true
		assert.Equal(t, "not-even-an-email", got.Email)
	}
	assert.Len(t, m.InquiryRepo.Stored, 3)
}

func TestSubmit_FirstMissingFieldWins(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *inquiry.Submission)
		want   string
	}{
		{"FullName", func(s *inquiry.Submission) { s.FullName = "" }, "full_name"},
		{"Email", func(s *inquiry.Submission) { s.Email = "" }, "email"},
		{"Mobile", func(s *inquiry.Submission) { s.Mobile = "" }, "mobile"},
		{"Subject", func(s *inquiry.Submission) { s.Subject = "  " }, "subject"},
		{"Message", func(s *inquiry.Submission) { s.Message = "" }, "message"},
		{"MobileBeforeMessage", func(s *inquiry.Submission) { s.Mobile = ""; s.Message = "" }, "mobile"},
		{"AllEmpty", func(s *inquiry.Submission) { *s = inquiry.Submission{} }, "full_name"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := mock.NewMocks()
			svc := inquiry.NewService(m.InquiryRepo, nil)
			sub := validSubmission()
			c.mutate(&sub)

			_, err := svc.Submit(context.Background(), sub)
			var mfe *inquiry.MissingFieldError
			require.ErrorAs(t, err, &mfe)
			assert.Equal(t, c.want, mfe.Field)
			assert.Equal(t, "Missing required field: "+c.want, err.Error())
			assert.Empty(t, m.InquiryRepo.Stored)
		})
	}
}

func TestSubmit_StorageFailure(t *testing.T) {
	m := mock.NewMocks()
	boom := errors.New("no such table: inquiries")
	m.InquiryRepo.CreateErr = boom
	svc := inquiry.NewService(m.InquiryRepo, nil)

	_, err := svc.Submit(context.Background(), validSubmission())
	assert.ErrorIs(t, err, boom)
}

func TestCheckPresence(t *testing.T) {
	full := func() map[string]any {
		return map[string]any{
			"full_name": "Jane", "email": "j@example.org", "mobile": "555",
			"subject": "Hi", "message": "Hello",
		}
	}

	require.NoError(t, inquiry.CheckPresence(full()))

	withNumber := full()
	withNumber["mobile"] = 5551234
	assert.NoError(t, inquiry.CheckPresence(withNumber), "non-string values count as present")

	cases := map[string]func(map[string]any){
		"full_name": func(m map[string]any) { delete(m, "full_name"); m["mobile"] = 5551234 },
		"email":     func(m map[string]any) { m["email"] = nil },
		"subject":   func(m map[string]any) { m["subject"] = "  \t" },
		"message":   func(m map[string]any) { delete(m, "message") },
	}
	for want, mutate := range cases {
		m := full()
		mutate(m)
		var missing *inquiry.MissingFieldError
		require.ErrorAs(t, inquiry.CheckPresence(m), &missing, want)
		assert.Equal(t, want, missing.Field)
	}
}
