package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/garnizeh/outreach/internal/inquiry"
	"github.com/qri-io/jsonschema"
)

// inquiries are short text forms
const maxInquiryBody = 1 << 20

//go:embed schema/inquiry.json
var inquirySchemaJSON []byte

type InquiryHandler struct {
	svc    *inquiry.Service
	schema *jsonschema.Schema
}

// NewInquiryHandler compiles the inquiry payload schema.
func NewInquiryHandler(svc *inquiry.Service) (*InquiryHandler, error) {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(inquirySchemaJSON, rs); err != nil {
		return nil, fmt.Errorf("compile inquiry schema: %w", err)
	}
	return &InquiryHandler{svc: svc, schema: rs}, nil
}

type inquiryResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	InquiryID int64  `json:"inquiry_id"`
}

// Submit stores a contact form submission.
func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInquiryBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	verrs, err := h.schema.ValidateBytes(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := inquiry.CheckPresence(fields); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(verrs) > 0 {
		writeError(w, http.StatusBadRequest, invalidFieldMessage(verrs))
		return
	}

	var sub inquiry.Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in, err := h.svc.Submit(r.Context(), sub)
	if err != nil {
		var missing *inquiry.MissingFieldError
		if errors.As(err, &missing) {
			writeError(w, http.StatusBadRequest, missing.Error())
			return
		}
		writeInternal(w, r, "submit inquiry", err)
		return
	}

	writeJSON(w, inquiryResponse{
		Status:    "success",
		Message:   "Inquiry received successfully. We will contact you soon.",
		InquiryID: in.ID,
	}, http.StatusCreated)
}

// invalidFieldMessage names the first required field, in check order, that the
// schema rejected.
func invalidFieldMessage(verrs []jsonschema.KeyError) string {
	rejected := make(map[string]bool, len(verrs))
	for _, e := range verrs {
		rejected[strings.TrimPrefix(e.PropertyPath, "/")] = true
	}
	for _, f := range inquiry.RequiredFields {
		if rejected[f] {
			return "Invalid value for field: " + f
		}
	}
	return "Invalid request body"
}
