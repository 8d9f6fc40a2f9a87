package retro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Prefix marks board descriptions owned by retrobot.
const Prefix = "Retrobot: "

// dateLayout matches the ISO-8601 form written by earlier releases (UTC, milliseconds).
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

type encodedInfo struct {
	Team   string `json:"team"`
	Date   string `json:"date"`
	Driver string `json:"driver"`
	Offset int    `json:"offset"`
	Issue  int    `json:"issue,omitempty"`
}

// IsRetroBody reports whether text carries the retrobot marker.
func IsRetroBody(text string) bool {
	return strings.HasPrefix(text, Prefix)
}

// Encode renders info as the tagged description string.
// Dates are stored in UTC with millisecond precision.
func Encode(info RetroInfo) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(encodedInfo{
		Team:   info.Team,
		Date:   info.Date.UTC().Format(dateLayout),
		Driver: info.Driver,
		Offset: info.Offset,
		Issue:  max(info.Issue, 0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode retro info: %w", err)
	}
	return Prefix + strings.TrimSuffix(buf.String(), "\n"), nil
}

// Decode parses a description produced by Encode.
//
// Records written by older releases may lack offset or issue. A missing or
// non-numeric offset decodes to 0 and a missing, zero or non-numeric issue
// decodes to "no issue".
func Decode(text string) (RetroInfo, error) {
	if !IsRetroBody(text) {
		return RetroInfo{}, fmt.Errorf("%w: %q", ErrFormat, text)
	}

	var raw struct {
		Team   string          `json:"team"`
		Date   string          `json:"date"`
		Driver string          `json:"driver"`
		Offset json.RawMessage `json:"offset"`
		Issue  json.RawMessage `json:"issue"`
	}
	if err := json.Unmarshal([]byte(text[len(Prefix):]), &raw); err != nil {
		return RetroInfo{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	date, err := time.Parse(time.RFC3339Nano, raw.Date)
	if err != nil {
		return RetroInfo{}, fmt.Errorf("%w: bad date %q", ErrFormat, raw.Date)
	}

	info := RetroInfo{
		Team:   raw.Team,
		Date:   date,
		Driver: raw.Driver,
	}
	if offset, ok := looseInt(raw.Offset); ok {
		info.Offset = offset
	}
	if issue, ok := looseInt(raw.Issue); ok && issue > 0 {
		info.Issue = issue
	}
	return info, nil
}

// looseInt accepts a JSON number or a numeric string.
func looseInt(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
