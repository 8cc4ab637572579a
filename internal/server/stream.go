package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

const contentTypeNDJSON = "application/x-ndjson"

// recordWriter writes JSON records as NDJSON lines and flushes after each one.
type recordWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newRecordWriter(w http.ResponseWriter) *recordWriter {
	return &recordWriter{w: w, rc: http.NewResponseController(w)}
}

func (rw *recordWriter) start(status int) {
	h := rw.w.Header()
	h.Set("Content-Type", contentTypeNDJSON)
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	rw.w.WriteHeader(status)
}

func (rw *recordWriter) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if _, err := rw.w.Write(append(data, '\n')); err != nil {
		return err
	}
	if err := rw.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
