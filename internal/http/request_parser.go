package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is required")

// decodeJSON reads one JSON object from the request body into dst. Any
// decoding problem is reported as a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &core.ValidationError{Err: errEmptyBody}
		}
		return &core.ValidationError{Err: fmt.Errorf("malformed JSON body: %w", err)}
	}
	return nil
}

// requireFields returns a validation error naming the first missing field.
// Fields are passed as name/present pairs in declaration order.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if !f.present {
			return &core.ValidationError{Err: fmt.Errorf("field required: %s", f.name)}
		}
	}
	return nil
}

type field struct {
	name    string
	present bool
}

// pathID parses an integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, &core.ValidationError{Err: fmt.Errorf("invalid %s %q: must be an integer", name, raw)}
	}
	return id, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims surrounding whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
