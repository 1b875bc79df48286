// Package server exposes script rendering over HTTP. Every request gets its own
// document and layout state.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"go.jetify.com/typeid/v2"

	"github.com/ByLCY/montage/binding"
	"github.com/ByLCY/montage/config"
	"github.com/ByLCY/montage/layout"
	"github.com/ByLCY/montage/raster"
	"github.com/ByLCY/montage/renderer"
	"github.com/ByLCY/montage/script"
)

const renderIDPrefix = "render"

type Handler struct {
	cfg      *config.Config
	renderer renderer.Renderer
	log      *slog.Logger
}

func NewHandler(cfg *config.Config, r renderer.Renderer, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{cfg: cfg, renderer: r, log: log}
}

// Router wires the routes and the global middleware.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(Recovery(h.log))
	r.Use(Logger(h.log))

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/render", h.Render).Methods("GET", "POST")
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Render runs a script and answers with the encoded image. The script comes from the
// `file` parameter (relative to the script directory) or from a POST body; all other
// query parameters become script variables.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	renderID := typeid.MustGenerate(renderIDPrefix).String()
	w.Header().Set("X-Render-ID", renderID)
	log := h.log.With("render_id", renderID, "request_id", RequestIDFromContext(r.Context()))

	src, name, err := h.source(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]any{"error": err.Error(), "render_id": renderID})
		return
	}

	vars := binding.New()
	vars.MergeValues(r.URL.Query(), "file")

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RenderTimeout)
	defer cancel()

	emitter := &script.BufferEmitter{Quality: h.cfg.JPEGQuality}
	res, err := script.Run(ctx, src, script.Options{
		BaseDir:     h.cfg.ScriptDir,
		Confine:     true,
		FontDir:     h.cfg.FontDir,
		Renderer:    h.renderer,
		Emitter:     emitter,
		Variables:   vars,
		Width:       h.cfg.Width,
		Height:      h.cfg.Height,
		DPI:         h.cfg.DPI,
		JPEGQuality: &h.cfg.JPEGQuality,
		MaxPixels:   h.cfg.MaxPixels,
		Logger:      log,
	})
	if err != nil {
		h.writeScriptError(w, renderID, name, err)
		return
	}

	// 脚本没有 output 指令时直接返回当前文档（JPEG）
	if res.Output == "" {
		if err := emitter.Emit(ctx, "", raster.FormatJPEG, res.Document); err != nil {
			log.Error("encode document", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encode failed", "render_id": renderID})
			return
		}
	} else {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filepath.Base(res.Output)))
	}

	w.Header().Set("Content-Type", emitter.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(emitter.Buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(emitter.Buf.Bytes()); err != nil {
		log.Warn("write response", "error", err)
	}
}

// source returns the script to run and a name for logging.
func (h *Handler) source(w http.ResponseWriter, r *http.Request) (io.Reader, string, error) {
	if r.Method == http.MethodPost {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxScriptSize))
		if err != nil {
			return nil, "", fmt.Errorf("读取脚本失败: %w", err)
		}
		if len(bytes.TrimSpace(body)) > 0 {
			return bytes.NewReader(body), "<body>", nil
		}
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		return nil, "", errors.New("缺少 file 参数或脚本内容")
	}
	if !filepath.IsLocal(file) {
		return nil, "", fmt.Errorf("不允许访问脚本目录之外的文件: %s", file)
	}
	data, err := os.ReadFile(filepath.Join(h.cfg.ScriptDir, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("找不到脚本 %s: %w", file, os.ErrNotExist)
		}
		return nil, "", fmt.Errorf("读取脚本 %s 失败: %w", file, err)
	}
	return bytes.NewReader(data), file, nil
}

func (h *Handler) writeScriptError(w http.ResponseWriter, renderID, name string, err error) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	body := map[string]any{
		"error":     err.Error(),
		"script":    name,
		"render_id": renderID,
	}
	var lineErr *script.LineError
	if errors.As(err, &lineErr) {
		body["line"] = lineErr.Line
		body["kind"] = errorKind(lineErr.Err)
	}
	writeJSON(w, status, body)
}

// errorKind names the sentinel behind a script error for API clients.
func errorKind(err error) string {
	for _, k := range []struct {
		err  error
		name string
	}{
		{layout.ErrUnresolvedReference, "unresolved_reference"},
		{layout.ErrInvalidMeasurement, "invalid_measurement"},
		{layout.ErrUnknownColor, "unknown_color"},
		{layout.ErrInvalidAlignment, "invalid_alignment"},
		{layout.ErrOddCoordinateCount, "odd_coordinate_count"},
		{layout.ErrDegeneratePolygon, "degenerate_polygon"},
		{layout.ErrUnknownDirective, "unknown_directive"},
		{layout.ErrUnknownOption, "unknown_option"},
		{layout.ErrMissingFile, "missing_file"},
		{layout.ErrUnsupportedImageFormat, "unsupported_image_format"},
		{layout.ErrUnsupportedOutputFormat, "unsupported_output_format"},
		{layout.ErrMalformedCommandSyntax, "malformed_command_syntax"},
	} {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
