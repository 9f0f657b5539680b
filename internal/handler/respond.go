package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/cesta/internal/shopping"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

type errorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestError is a malformed or invalid request body.
type requestError struct {
	msg     string
	details map[string]string
}

func (e *requestError) Error() string { return e.msg }

// statusFor maps a rejected shopping operation to its HTTP status.
func statusFor(kind shopping.Kind) int {
	switch kind {
	case shopping.KindValidation:
		return http.StatusBadRequest
	case shopping.KindNoPriceForStore, shopping.KindNoPriceRecords, shopping.KindInvalidCategory:
		return http.StatusUnprocessableEntity
	case shopping.KindNotFound:
		return http.StatusNotFound
	case shopping.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError reports err to the client. Shopping rejections carry their own
// message; anything else is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var re *requestError
	if errors.As(err, &re) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: re.msg, Code: string(shopping.KindValidation), Details: re.details})
		return
	}
	if kind := shopping.KindOf(err); kind != "" {
		writeJSON(w, statusFor(kind), errorBody{Error: err.Error(), Code: string(kind)})
		return
	}
	logger.Error(op, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "internal"})
}

// decodeJSON reads a JSON body into dest and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return &requestError{msg: "invalid JSON: " + err.Error()}
	}
	return validateStruct(dest)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &requestError{msg: "validation failed"}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = validationMessage(fe)
	}
	first := verrs[0]
	return &requestError{msg: fmt.Sprintf("%s %s", first.Field(), validationMessage(first)), details: details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "dive", "unique":
		return "contains invalid entries"
	}
	return "is invalid"
}
