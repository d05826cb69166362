package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/couchcryptid/utm-transform-service/internal/domain"
	"github.com/couchcryptid/utm-transform-service/internal/stream"
)

// handleTransform converts UTM coordinates in a JSON array of records to
// latitude and longitude. The default mode streams each record out as soon
// as it is transformed; BUFFER_RESPONSE assembles the full response first so
// late failures can still produce a clean 500.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.metrics.RequestsInFlight.Inc()
	defer func() {
		s.metrics.RequestsInFlight.Dec()
		s.metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}()

	if s.bufferResponse {
		s.transformBuffered(w, r)
		return
	}
	s.transformStreaming(w, r)
}

func (s *Server) transformStreaming(w http.ResponseWriter, r *http.Request) {
	dec := stream.NewDecoder(r.Body)

	w.Header().Set("Content-Type", "application/json")
	out := &flushWriter{w: w}
	out.f, _ = w.(http.Flusher)
	enc := stream.NewEncoder(out)

	var count int
	err := stream.Process(r.Context(), dec, enc, s.transformFunc(&count))
	s.metrics.RecordsPerRequest.Observe(float64(count))
	if err != nil {
		if !enc.Started() {
			http.Error(w, "transform failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// Bytes are already on the wire; the truncated array is the
		// only failure signal the client gets.
		s.logger.Error("transform stream aborted", "error", err, "records", count)
	}
}

func (s *Server) transformBuffered(w http.ResponseWriter, r *http.Request) {
	dec := stream.NewDecoder(r.Body)

	var buf bytes.Buffer
	enc := stream.NewEncoder(&buf)

	var count int
	err := stream.Process(r.Context(), dec, enc, s.transformFunc(&count))
	s.metrics.RecordsPerRequest.Observe(float64(count))
	if err != nil {
		http.Error(w, "transform failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes()) //nolint:errcheck // client gone, nothing to do
}

// transformFunc wraps the record transform with per-record metrics.
func (s *Server) transformFunc(count *int) stream.TransformFunc {
	return func(rec domain.Record) (domain.Record, error) {
		*count++
		s.metrics.RecordsProcessed.Inc()

		out, skip, err := domain.TransformRecord(rec, s.fields, s.logger)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				s.metrics.ValidationErrors.Inc()
			}
			return domain.Record{}, err
		}
		if skip != nil {
			s.metrics.RecordsSkipped.WithLabelValues(string(skip.Reason)).Inc()
			return out, nil
		}
		s.metrics.RecordsTransformed.Inc()
		return out, nil
	}
}

// flushWriter flushes after every write so transformed records reach the
// client without waiting for the response buffer to fill.
type flushWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if fw.f != nil {
		fw.f.Flush()
	}
	return n, err
}
