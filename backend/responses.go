package backend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jrsteele09/go-video-client/apimodel"
	"github.com/rs/zerolog/log"
)

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apimodel.MessageResponse{Message: message})
}

// decodeBody reads an optional JSON body into v; an empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
