package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/plant-store/internal/http/middleware"
	"github.com/rogerio-castellano/plant-store/internal/repo"
)

const (
	maxBodyBytes = 1048576 // one megabyte

	msgPlantNotFound = "Plant not found"
	msgInternalError = "internal server error"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeStoreError maps a repository error to its response. Anything other
// than a missing plant is logged and reported as a 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repo.ErrPlantNotFound) {
		writeError(w, http.StatusNotFound, msgPlantNotFound)
		return
	}
	middleware.Logger(r.Context()).WithError(err).Error("plant store operation failed")
	writeError(w, http.StatusInternalServerError, msgInternalError)
}

// plantID parses the {id} path parameter. Only positive integers name a plant.
func plantID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
