// Package server exposes the roster transform over HTTP: a workbook is
// uploaded and the consolidated table comes back as a CSV download or JSON.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/output"
)

// uploadField is the multipart form field carrying the workbook.
const uploadField = "file"

// Options configures the handler.
type Options struct {
	Transform roster.Options
	CSV       output.CSVOptions
	// MaxUploadBytes limits the request body size.
	MaxUploadBytes int64
	// Now returns the time used for download file names.
	Now func() time.Time
}

// Handler serves the transform endpoint.
type Handler struct {
	opts   Options
	logger *zap.Logger
}

// New creates the HTTP router.
func New(opts Options, logger *zap.Logger) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	h := &Handler{opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/transform", h.transform)
	})
	return r
}

func (h *Handler) transform(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if tooLarge(err) {
			h.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", h.opts.MaxUploadBytes))
			return
		}
		h.fail(w, r, http.StatusBadRequest, fmt.Errorf("missing upload field %q: %w", uploadField, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		status := http.StatusBadRequest
		if tooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		h.fail(w, r, status, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	logger := h.logger.With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("file", header.Filename))

	opts := h.opts.Transform
	opts.Progress = func(p roster.Progress) {
		logger.Debug("Sheet processed",
			zap.Int("index", p.Index),
			zap.Int("total", p.Total),
			zap.String("sheet", p.Sheet),
			zap.Int("entries", p.Entries))
	}

	res, err := roster.TransformReader(bytes.NewReader(data), header.Filename, opts)
	if err != nil {
		status := http.StatusInternalServerError
		var sheetErr *roster.SheetError
		if errors.Is(err, roster.ErrInvalidFormat) || errors.As(err, &sheetErr) {
			status = http.StatusUnprocessableEntity
		}
		h.fail(w, r, status, err)
		return
	}

	logger.Info("Transform finished",
		zap.Int("sheets", len(res.Summary.Sheets)),
		zap.Int("total_days", res.Summary.TotalDays),
		zap.Int("total_blocks", res.Summary.TotalBlocks))

	if r.URL.Query().Get("format") == "json" {
		render.JSON(w, r, output.NewReport(res))
		return
	}

	var buf bytes.Buffer
	if err := output.WriteCSV(&buf, res.Blocks, h.opts.CSV); err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.Filename(h.opts.Now())))
	_, _ = w.Write(buf.Bytes())
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.logger.Warn("Transform request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.Error(err))
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
