package http

// This file holds helpers for reading request bodies and query values.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"noskip/internal/core"
)

const maxBodyBytes = 64 << 10

// errEmptyBody is returned by decodeJSON when the body has no content.
var errEmptyBody = fmt.Errorf("%w: empty body", errBadRequest)

// decodeJSON reads one JSON object into dst. Unknown fields and trailing
// data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		// Domain sentinels raised by field decoders stay validation errors.
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDay) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("%w: %s", errBadRequest, err.Error())
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadRequest)
	}
	return nil
}

// DateRange is an inclusive from/to pair read from the query string.
type DateRange struct {
	From core.Date
	To   core.Date
}

// ParseDateRange reads from and to (YYYY-MM-DD). Missing values fall back
// to the bounds of fallback.
func ParseDateRange(query url.Values, fallback DateRange) (DateRange, error) {
	out := fallback
	if v := strings.TrimSpace(query.Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: from must be YYYY-MM-DD", errBadRequest)
		}
		out.From = d
	}
	if v := strings.TrimSpace(query.Get("to")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: to must be YYYY-MM-DD", errBadRequest)
		}
		out.To = d
	}
	return out, nil
}

// ParseMonthParam reads a YYYY-MM value. ok is false when the key is absent.
func ParseMonthParam(query url.Values, key string) (month core.Date, ok bool, err error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Date{}, false, nil
	}
	month, err = core.ParseMonth(v)
	if err != nil {
		return core.Date{}, false, fmt.Errorf("%w: %s must be YYYY-MM", errBadRequest, key)
	}
	return month, true, nil
}

// ParseYearMonth reads the year and month query values, defaulting to ref.
func ParseYearMonth(query url.Values, ref core.Date) (year, month int, err error) {
	year, month = ref.Year(), ref.Month()
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: year must be a number", errBadRequest)
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("%w: month must be a number", errBadRequest)
		}
	}
	return year, month, nil
}

// ParseBoolParam reads a boolean query value with a default.
func ParseBoolParam(query url.Values, key string, def bool) (bool, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", errBadRequest, key)
	}
	return b, nil
}

// sanitizeInput trims whitespace and drops control characters other than
// tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
