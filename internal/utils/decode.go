package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EmpoweredVote/civic-requests/internal/validation"
)

const maxBodyBytes = 1 << 20

// Normalizer is implemented by payloads that clean their fields (trimming,
// case folding) before validation.
type Normalizer interface {
	Normalize()
}

// DecodeJSON reads a JSON body into dst, normalizes it and validates it. On
// failure it writes the 400 response itself and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	if err := v.Struct(dst); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			WriteValidationError(w, verrs)
			return false
		}
		WriteServerError(w, r, err, "Internal server error")
		return false
	}
	return true
}
