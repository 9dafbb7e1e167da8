package wbclient

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrNotInitialized — вызов Fetch вне скобки Open/Close.
// Это ошибка программирования: клиент обязан быть открыт до первого запроса.
var ErrNotInitialized = errors.New("wbclient: client is not opened")

// RequestError — апстрим ответил не-2xx статусом.
// Несёт URL, параметры, тело запроса (если было), статус и сырое тело
// ответа для диагностики. Слой клиента такие ошибки не ретраит.
type RequestError struct {
	URL         string
	Params      url.Values
	RequestBody []byte
	Status      int
	Body        []byte
}

func (e *RequestError) Error() string {
	if len(e.RequestBody) > 0 {
		return fmt.Sprintf("request failed (url=%s, params=%v, body=%s): status=%d, response=%s",
			e.URL, e.Params, e.RequestBody, e.Status, e.Body)
	}
	return fmt.Sprintf("request failed (url=%s, params=%v): status=%d, response=%s",
		e.URL, e.Params, e.Status, e.Body)
}

// TransportError — сетевой сбой (отказ соединения, таймаут, DNS, TLS).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed (url=%s): %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError — успешный ответ, тело которого не соответствует ожидаемой схеме.
// Частичное декодирование наружу не отдаётся: весь вызов считается неуспешным.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed (url=%s): %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
