package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout — формат календарных дат запроса (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ErrBadDate — дата запроса не соответствует формату YYYY-MM-DD.
var ErrBadDate = errors.New("date must be in YYYY-MM-DD format")

// DateRange — период запроса: обязательная дата начала и необязательная дата конца.
// Обе — календарные даты без компонента времени. Нулевой To означает «конец не задан».
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange — разбирает и валидирует границы периода.
// Пустой to допустим; from обязателен.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange

	fromDate, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: date_from=%q", ErrBadDate, from)
	}
	r.From = fromDate

	if to != "" {
		toDate, err := time.Parse(DateLayout, to)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: date_to=%q", ErrBadDate, to)
		}
		r.To = toDate
	}

	return r, nil
}

// HasTo — задана ли дата конца периода.
func (r DateRange) HasTo() bool { return !r.To.IsZero() }

// EndOfTo — последний момент дня To: конец календарного дня включительно
// (следующая полночь минус секунда — гранулярность меток времени API).
func (r DateRange) EndOfTo() time.Time {
	return r.To.AddDate(0, 0, 1).Add(-time.Second)
}

// Key — детерминированный ключ периода для кэша отчётов.
func (r DateRange) Key() string {
	if !r.HasTo() {
		return r.From.Format(DateLayout)
	}
	return r.From.Format(DateLayout) + ".." + r.To.Format(DateLayout)
}
