package http

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	apperrors "github.com/lakemont/admissions/internal/platform/errors"
)

// maxBodyBytes caps request bodies. Admission payloads are small; anything
// larger is a mistake or abuse.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, response := apperrors.HandleError(err, r.Header.Get("Accept-Language"))
	writeJSON(w, status, response)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidRequest, "read request body", err)
	}
	return body, nil
}

func invalidField(name string, cause error) error {
	return apperrors.Wrap(apperrors.CodeInvalidRequest, "parse "+name, cause)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "decode request body", err)
	}
	return nil
}
