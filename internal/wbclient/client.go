// Пакет wbclient — клиент Statistics API: скобка Open/Close вокруг транспорта,
// шлюз одновременных запросов, подстановка заголовков авторизации и
// классификация ошибок (RequestError/TransportError/DecodeError).
package wbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_abc/internal/ports"
	"github.com/Gunvolt24/wb_abc/pkg/metrics"
)

const (
	// DefaultBaseURL — базовый адрес Statistics API.
	DefaultBaseURL = "https://statistics-api.wildberries.ru/api/"

	defaultTimeout       = 10 * time.Second
	defaultMaxConcurrent = 10
)

// Config — настройки клиента. Источник ключа неизменяем на время жизни клиента.
type Config struct {
	BaseURL       string
	Credentials   ports.CredentialSource
	Timeout       time.Duration
	MaxConcurrent int
}

// Client — HTTP-клиент Statistics API.
// Весь кросс-вызовный стейт — шлюз (gate) и ключ; записи ответов наружу
// отдаются копиями и конкурентные запросы ничего не разделяют.
type Client struct {
	baseURL string
	creds   ports.CredentialSource
	timeout time.Duration

	// gate — шлюз допуска: ёмкость канала ограничивает число
	// одновременных запросов к апстриму через один клиент.
	gate chan struct{}

	mu    sync.RWMutex
	httpc *http.Client
}

// New — конструктор клиента. Транспорт не создаётся до Open.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Credentials == nil {
		cfg.Credentials = StaticCredential("")
	}

	return &Client{
		baseURL: cfg.BaseURL,
		creds:   cfg.Credentials,
		timeout: cfg.Timeout,
		gate:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Open — создаёт транспорт. Повторный Open уже открытого клиента — ошибка.
func (c *Client) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.httpc != nil {
		return fmt.Errorf("wbclient: client is already opened")
	}
	c.httpc = &http.Client{Timeout: c.timeout}
	return nil
}

// Close — закрывает клиент: дожидается завершения запросов в полёте
// (заполняя шлюз целиком) и освобождает транспорт. Идемпотентен.
func (c *Client) Close() error {
	c.mu.Lock()
	httpc := c.httpc
	c.httpc = nil
	c.mu.Unlock()

	if httpc == nil {
		return nil
	}

	// Дренаж: захватываем все слоты — значит, запросов в полёте не осталось.
	for i := 0; i < cap(c.gate); i++ {
		c.gate <- struct{}{}
	}
	for i := 0; i < cap(c.gate); i++ {
		<-c.gate
	}

	httpc.CloseIdleConnections()
	return nil
}

// Request — параметры одного вызова Fetch.
type Request struct {
	Method string
	Path   string // относительный путь эндпоинта
	Query  url.Values
	Body   any         // сериализуется в JSON, если не nil
	Header http.Header // переопределяет заголовки по умолчанию поключево
}

// defaultHeaders — заголовки каждого запроса: авторизация и content-type.
func (c *Client) defaultHeaders() http.Header {
	h := make(http.Header, 2)
	h.Set("Authorization", c.creds.Credential())
	h.Set("Content-Type", "application/json")
	return h
}

// Fetch — один сетевой вызов: допуск через шлюз, запрос, классификация
// ошибки, декодирование JSON-ответа в out (если out != nil).
// Слот шлюза освобождается на любом пути выхода, включая отмену контекста.
func (c *Client) Fetch(ctx context.Context, req Request, out any) error {
	c.mu.RLock()
	httpc := c.httpc
	c.mu.RUnlock()

	if httpc == nil {
		return ErrNotInitialized
	}

	// Допуск: ждём свободный слот или отмену контекста.
	select {
	case c.gate <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.WBInFlight.Inc()
	defer func() {
		metrics.WBInFlight.Dec()
		<-c.gate
	}()

	fullURL := c.baseURL + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var (
		bodyReader io.Reader
		reqBody    []byte
	)
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = raw
		bodyReader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	headers := c.defaultHeaders()
	for key, vals := range req.Header {
		headers[http.CanonicalHeaderKey(key)] = vals
	}
	httpReq.Header = headers

	start := time.Now()
	resp, err := httpc.Do(httpReq)
	metrics.WBRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WBRequests.WithLabelValues("transport_error").Inc()
		return &TransportError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.WBRequests.WithLabelValues("transport_error").Inc()
		return &TransportError{URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.WBRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		return &RequestError{URL: fullURL, Params: req.Query, RequestBody: reqBody, Status: resp.StatusCode, Body: raw}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			metrics.WBRequests.WithLabelValues("decode_error").Inc()
			return &DecodeError{URL: fullURL, Err: err}
		}
	}

	metrics.WBRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	return nil
}
