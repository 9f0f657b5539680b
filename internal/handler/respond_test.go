package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/cesta/internal/shopping"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"validation", &shopping.Error{Kind: shopping.KindValidation, Message: "bad"}, http.StatusBadRequest, "validation"},
		{"no price for store", &shopping.Error{Kind: shopping.KindNoPriceForStore, Message: "x"}, http.StatusUnprocessableEntity, "no_price_for_store"},
		{"no price records", &shopping.Error{Kind: shopping.KindNoPriceRecords, Message: "x"}, http.StatusUnprocessableEntity, "no_price_records"},
		{"invalid category", &shopping.Error{Kind: shopping.KindInvalidCategory, Message: "x"}, http.StatusUnprocessableEntity, "invalid_category"},
		{"not found", &shopping.Error{Kind: shopping.KindNotFound, Message: "x"}, http.StatusNotFound, "not_found"},
		{"forbidden", &shopping.Error{Kind: shopping.KindForbidden, Message: "x"}, http.StatusForbidden, "forbidden"},
		{"request", &requestError{msg: "name is required"}, http.StatusBadRequest, "validation"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, discardLogger(), "test", tt.err)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantKind {
				t.Errorf("code = %q, want %q", body.Code, tt.wantKind)
			}
		})
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, discardLogger(), "test", errors.New("sql: connection refused"))

	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    bool
		wantDetail string
	}{
		{"valid", `{"name":"Compra"}`, false, ""},
		{"missing name", `{}`, true, "name"},
		{"unknown field", `{"name":"Compra","colour":"red"}`, true, ""},
		{"malformed", `{"name":`, true, ""},
		{"too long", `{"name":"` + strings.Repeat("a", 101) + `"}`, true, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dest listRequest
			err := decodeJSON(rec, req, &dest)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantDetail == "" {
				return
			}
			var re *requestError
			if !errors.As(err, &re) {
				t.Fatalf("err = %T, want *requestError", err)
			}
			if _, ok := re.details[tt.wantDetail]; !ok {
				t.Errorf("details = %v, want key %q", re.details, tt.wantDetail)
			}
		})
	}
}
