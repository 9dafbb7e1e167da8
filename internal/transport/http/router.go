package rest

import (
	"errors"
	"net/http"

	"github.com/Gunvolt24/wb_abc/internal/domain"
	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/Gunvolt24/wb_abc/internal/usecase"
	"github.com/Gunvolt24/wb_abc/internal/wbclient"
	"github.com/Gunvolt24/wb_abc/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	service ports.ReportBuilder
	log     ports.Logger
}

func NewHandler(service ports.ReportBuilder, log ports.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func NewRouter(h *Handler, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))
	r.Use(extra...)

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/v1/report", h.buildReport)

	return r
}

// reportRequest — тело запроса отчёта: период в календарных датах.
type reportRequest struct {
	DateFrom string `json:"date_from" binding:"required"`
	DateTo   string `json:"date_to"`
}

// reportResponse — готовый отчёт: строки в порядке убывания выручки.
type reportResponse struct {
	DateFrom string           `json:"date_from"`
	DateTo   string           `json:"date_to,omitempty"`
	Items    []domain.ABCItem `json:"items"`
}

func (h *Handler) buildReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_request", "error": "date_from is required"})
		return
	}

	period, err := domain.ParseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "bad_date", "error": err.Error()})
		return
	}

	items, err := h.service.RunReport(c.Request.Context(), period)
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, reportResponse{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Items:    items,
	})
}

// writeReportError — отображение ошибок оркестратора на HTTP-статусы:
// ошибки запроса → 400, ошибки апстрима → 502, всё остальное → 500.
func (h *Handler) writeReportError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var reqErr *wbclient.RequestError
	var transErr *wbclient.TransportError
	var decErr *wbclient.DecodeError

	switch {
	case errors.Is(err, usecase.ErrRangeTooOld):
		c.JSON(http.StatusBadRequest, gin.H{"code": "range_too_old", "error": err.Error()})
	case errors.Is(err, usecase.ErrEmptyResult):
		c.JSON(http.StatusBadRequest, gin.H{"code": "empty_result", "error": err.Error()})
	case errors.As(err, &reqErr):
		h.log.Errorf(ctx, "upstream rejected request status=%d err=%v", reqErr.Status, err)
		c.JSON(http.StatusBadGateway, gin.H{"code": "upstream_error", "error": "upstream request failed"})
	case errors.As(err, &transErr):
		h.log.Errorf(ctx, "upstream unreachable err=%v", err)
		c.JSON(http.StatusBadGateway, gin.H{"code": "upstream_unreachable", "error": "upstream request failed"})
	case errors.As(err, &decErr):
		h.log.Errorf(ctx, "upstream response malformed err=%v", err)
		c.JSON(http.StatusBadGateway, gin.H{"code": "upstream_bad_response", "error": "upstream response malformed"})
	default:
		h.log.Errorf(ctx, "RunReport failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "internal server error"})
	}
}
