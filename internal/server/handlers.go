package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fastjson"

	"avro-mapper/internal/record"
)

const contentTypeJSON = "application/json"

func (s *Server) handleConvert() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		body, err := s.readBody(w, r)
		if err != nil {
			s.invalidRequest(w, r, started, err)
			return
		}

		input, err := record.DecodeJSON(s.input, body)
		if err != nil {
			s.invalidRequest(w, r, started, err)
			return
		}

		out, err := s.conv.ConvertToNewRecord(input, nil)
		s.respondRecord(w, r, started, out, err)
	}
}

func (s *Server) handleConvertExisting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		body, err := s.readBody(w, r)
		if err != nil {
			s.invalidRequest(w, r, started, err)
			return
		}

		var p fastjson.Parser

		doc, err := p.ParseBytes(body)
		if err != nil {
			s.invalidRequest(w, r, started, fmt.Errorf("failed to parse request: %w", err))
			return
		}

		inputDoc, outputDoc := doc.Get("input"), doc.Get("output")
		if inputDoc == nil || outputDoc == nil {
			s.invalidRequest(w, r, started, fmt.Errorf(`request needs both "input" and "output" objects`))
			return
		}

		input, err := record.DecodeJSON(s.input, inputDoc.MarshalTo(nil))
		if err != nil {
			s.invalidRequest(w, r, started, fmt.Errorf("input: %w", err))
			return
		}

		output, err := record.DecodeJSON(s.conv.OutputSchema(), outputDoc.MarshalTo(nil))
		if err != nil {
			s.invalidRequest(w, r, started, fmt.Errorf("output: %w", err))
			return
		}

		out, err := s.conv.ConvertToExistingRecord(input, output)
		s.respondRecord(w, r, started, out, err)
	}
}

func (s *Server) handleRequired() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var a fastjson.Arena

		required := a.NewArray()
		for i, p := range s.conv.RequiredPaths() {
			required.SetArrayItem(i, a.NewString(p.String()))
		}

		cfg := s.conv.Configuration()

		fields := a.NewObject()
		for _, name := range cfg.Names() {
			entry := a.NewObject()
			entry.Set("input", a.NewString(cfg[name].InputPath().String()))
			entry.Set("output", a.NewString(cfg[name].OutputPath().String()))
			fields.Set(name, entry)
		}

		resp := a.NewObject()
		resp.Set("schema", a.NewString(s.conv.OutputSchema().FullName()))
		resp.Set("required", required)
		resp.Set("fields", fields)

		writeJSON(w, http.StatusOK, resp.MarshalTo(nil))
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []byte(`{"status":"ok"}`))
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	return body, nil
}

func (s *Server) respondRecord(w http.ResponseWriter, r *http.Request, started time.Time, out *record.Record, err error) {
	if err != nil {
		s.metrics.observe(resultConversionError, started)
		writeError(w, r, http.StatusUnprocessableEntity, err)

		return
	}

	data, err := out.MarshalJSON()
	if err != nil {
		s.metrics.observe(resultConversionError, started)
		writeError(w, r, http.StatusInternalServerError, err)

		return
	}

	s.metrics.observe(resultOK, started)
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) invalidRequest(w http.ResponseWriter, r *http.Request, started time.Time, err error) {
	s.metrics.observe(resultInvalidRequest, started)
	s.logger.Warn("invalid request", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	writeError(w, r, http.StatusBadRequest, err)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	var a fastjson.Arena

	resp := a.NewObject()
	resp.Set("error", a.NewString(err.Error()))
	resp.Set("request_id", a.NewString(RequestID(r.Context())))

	writeJSON(w, status, resp.MarshalTo(nil))
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
