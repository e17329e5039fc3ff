package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garnizeh/outreach/api"
	"github.com/garnizeh/outreach/internal/inquiry"
	"github.com/garnizeh/outreach/pkg/repository/mock"
)

func validInquiry() map[string]any {
	return map[string]any{
		"full_name": "Jane Doe",
		"email":     "jane@example.org",
		"mobile":    "555-0100",
		"subject":   "Volunteering",
		"message":   "How can I help?",
	}
}

func TestInquirySubmit(t *testing.T) {
	tests := []struct {
		name       string
		body       func() any
		prepare    func(m *mock.Mocks)
		wantStatus int
		wantMsg    string
		wantStored int
	}{
		{
			name:       "Success",
			body:       func() any { return validInquiry() },
			wantStatus: http.StatusCreated,
			wantMsg:    "Inquiry received successfully. We will contact you soon.",
			wantStored: 1,
		},
		{
			name: "EmptyMobile",
			body: func() any {
				b := validInquiry()
				b["mobile"] = ""
				return b
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required field: mobile",
		},
		{
			name: "NullSubject",
			body: func() any {
				b := validInquiry()
				b["subject"] = nil
				return b
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required field: subject",
		},
		{
			name:       "EmptyObject_FirstFieldReported",
			body:       func() any { return map[string]any{} },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required field: full_name",
		},
		{
			name: "OnlyMessageMissing",
			body: func() any {
				b := validInquiry()
				delete(b, "message")
				return b
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required field: message",
		},
		{
			name: "ExtraFieldsIgnored",
			body: func() any {
				b := validInquiry()
				b["newsletter"] = true
				return b
			},
			wantStatus: http.StatusCreated,
			wantStored: 1,
		},
		{
			name: "WrongType",
			body: func() any {
				b := validInquiry()
				b["mobile"] = 5550100
				return b
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid value for field: mobile",
		},
		{
			name: "MissingFieldReportedBeforeWrongType",
			body: func() any {
				b := validInquiry()
				delete(b, "full_name")
				b["mobile"] = 5551234
				return b
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Missing required field: full_name",
		},
		{
			name: "SeveralWrongTypes_FirstFieldReported",
			body: func() any {
				return map[string]any{"full_name": 1, "email": 2, "mobile": 3, "subject": 4, "message": 5}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid value for field: full_name",
		},
		{
			name:       "NotAnObject",
			body:       func() any { return []string{"a"} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "InvalidJSON",
			body:       func() any { return "{not json" },
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request body",
		},
		{
			name: "StorageError",
			body: func() any { return validInquiry() },
			prepare: func(m *mock.Mocks) {
				m.InquiryRepo.CreateErr = errors.New("UNIQUE constraint failed: secret detail")
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(m)
			}
			h, err := api.NewInquiryHandler(inquiry.NewService(m.InquiryRepo, nil))
			if err != nil {
				t.Fatalf("NewInquiryHandler: %v", err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/inquiry", encodeBody(t, tt.body()))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.Submit(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			body := decodeStatus(t, w.Body.Bytes())
			if tt.wantMsg != "" && body["message"] != tt.wantMsg {
				t.Fatalf("expected message %q, got %v", tt.wantMsg, body["message"])
			}
			if strings.Contains(w.Body.String(), "secret detail") {
				t.Fatalf("internal error leaked: %s", w.Body.String())
			}
			if len(m.InquiryRepo.Stored) != tt.wantStored {
				t.Fatalf("expected %d stored inquiries, got %d", tt.wantStored, len(m.InquiryRepo.Stored))
			}
			if tt.wantStatus == http.StatusCreated {
				if body["status"] != "success" {
					t.Fatalf("expected success status, got %v", body["status"])
				}
				if id, _ := body["inquiry_id"].(float64); id <= 0 {
					t.Fatalf("expected positive inquiry_id, got %v", body["inquiry_id"])
				}
			} else if body["status"] != "error" {
				t.Fatalf("expected error envelope, got %#v", body)
			}
		})
	}
}

func TestInquirySubmit_WrongTypesReportedInFieldOrder(t *testing.T) {
	h, err := api.NewInquiryHandler(inquiry.NewService(mock.NewMocks().InquiryRepo, nil))
	if err != nil {
		t.Fatalf("NewInquiryHandler: %v", err)
	}
	body := map[string]any{"full_name": "Jane", "email": 2, "mobile": 3, "subject": 4, "message": 5}

	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/api/inquiry", encodeBody(t, body))
		w := httptest.NewRecorder()
		h.Submit(w, req)

		got := decodeStatus(t, w.Body.Bytes())["message"]
		if w.Code != http.StatusBadRequest || got != "Invalid value for field: email" {
			t.Fatalf("attempt %d: expected 400 for email, got %d %v", i, w.Code, got)
		}
	}
}
