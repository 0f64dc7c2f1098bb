package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prasetyowira/shortlink/api/response"
	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/domain/shortener"
	"github.com/prasetyowira/shortlink/infrastructure/logger"
)

const maxQRCodeSize = 1024

// URLService is the part of the shortener service the handlers use.
type URLService interface {
	Shorten(ctx context.Context, url string, alias *string) (shortener.Mapping, error)
	Resolve(ctx context.Context, alias string) (string, error)
}

// QRGenerator renders a QR code PNG for an alias.
type QRGenerator interface {
	Generate(alias string, size int) ([]byte, error)
}

// HealthChecker reports whether storage is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AliasCounter counts stored aliases.
type AliasCounter interface {
	IncAliasCreated(generated bool)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	service  URLService
	qr       QRGenerator
	health   HealthChecker
	counter  AliasCounter
	validate *validator.Validate
	log      *logger.Logger
}

// SaveURLRequest is the body of POST /url. A missing alias is nil; an
// explicit "" is kept so the length rule rejects it.
type SaveURLRequest struct {
	URL   string  `json:"url" validate:"required,url"`
	Alias *string `json:"alias,omitempty"`
}

// NewHandler creates a new API handler
func NewHandler(service URLService, qr QRGenerator, health HealthChecker, counter AliasCounter, log *logger.Logger) *Handler {
	return &Handler{
		service:  service,
		qr:       qr,
		health:   health,
		counter:  counter,
		validate: validator.New(),
		log:      log,
	}
}

// SaveURL handles short URL creation
func (h *Handler) SaveURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaveURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn(ctx, "Error decoding request body", logger.LoggerInfo{
			ContextFunction: constant.CtxSaveURL,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAPIDecodeRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
		h.writeError(ctx, w, errInvalidRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.log.Debug(ctx, "Request validation failed", logger.LoggerInfo{
			ContextFunction: constant.CtxSaveURL,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeInvalidURL,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataURL: req.URL,
			},
		})
		h.writeError(ctx, w, shortener.ErrInvalidURL)
		return
	}

	m, err := h.service.Shorten(ctx, req.URL, req.Alias)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.counter.IncAliasCreated(req.Alias == nil)
	response.WriteJSON(w, response.OK(m.Alias), http.StatusOK)
}

// Redirect sends the client to the URL stored for the alias
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alias := chi.URLParam(r, constant.ParamAlias)

	url, err := h.service.Resolve(ctx, alias)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.log.Debug(ctx, "Redirecting", logger.LoggerInfo{
		ContextFunction: constant.CtxRedirect,
		Data: map[string]interface{}{
			constant.DataAlias: alias,
			constant.DataURL:   url,
		},
	})

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// QRCode serves a PNG QR code of the short link. The optional size query
// parameter sets the edge length in pixels.
func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alias := chi.URLParam(r, constant.ParamAlias)

	if _, err := h.service.Resolve(ctx, alias); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 || size > maxQRCodeSize {
		size = 0
	}

	png, err := h.qr.Generate(alias, size)
	if err != nil {
		h.log.Error(ctx, "Failed to generate QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxQRCode,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAPIQRCode,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataAlias: alias,
			},
		})
		response.WriteError(w, constant.MsgQRCodeFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set(constant.HeaderContentType, constant.ContentTypePNG)
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Health reports whether storage answers a ping
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.log.Debug(ctx, constant.MsgHealthcheckRequest, logger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	if err := h.health.Ping(ctx); err != nil {
		h.log.Error(ctx, constant.MsgUnhealthy, logger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAPIHealth,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(constant.MsgUnhealthy))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(constant.MsgHealthy))
}

// writeError translates err through errorTable and writes the envelope.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := translateError(err)

	if status >= http.StatusInternalServerError && !errors.Is(err, shortener.ErrStorage) {
		h.log.Error(ctx, "Unhandled error", logger.LoggerInfo{
			ContextFunction: constant.CtxAPI,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAPIServiceError,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
	}

	response.WriteError(w, msg, status)
}
