package shared

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"hrinsight/internal/transport/http/api"
)

const invalidDateReason = "must be a valid date in YYYY-MM-DD format"

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues across a request so they can be reported
// together in one validation_error response.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{issues: make([]ValidationIssue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: strings.TrimSpace(field), Reason: reason})
}

func (v *Validator) Required(field, value, reason string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, reason)
	}
}

// Enum lowercases value and checks it against allowed. An empty value passes;
// pair with Required when the field is mandatory.
func (v *Validator) Enum(field, value string, allowed []string, reason string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return normalized
	}
	for _, candidate := range allowed {
		if normalized == candidate {
			return normalized
		}
	}
	v.Add(field, reason)
	return normalized
}

// ID parses an optional positive id. Empty input yields nil.
func (v *Validator) ID(field, raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		v.Add(field, "must be a positive integer")
		return nil
	}
	return &id
}

// PositiveID flags an id that was supplied in a JSON body but is not positive.
func (v *Validator) PositiveID(field string, id *int64) {
	if id != nil && *id <= 0 {
		v.Add(field, "must be a positive integer")
	}
}

// Int parses an optional integer, returning fallback when empty.
func (v *Validator) Int(field, raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(field, "must be an integer")
		return fallback
	}
	return n
}

// Bool parses an optional strconv-style boolean. Empty input is false.
func (v *Validator) Bool(field, raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		v.Add(field, "must be true or false")
		return false
	}
	return b
}

// IntRange is Int with inclusive bounds.
func (v *Validator) IntRange(field, raw string, fallback, lo, hi int) int {
	n := v.Int(field, raw, fallback)
	if n < lo || n > hi {
		v.Add(field, "must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return n
}

// Period parses an inclusive date window. A bare end date is widened to the
// end of that day. Either bound may be empty unless required is set.
func (v *Validator) Period(startField, rawStart, endField, rawEnd string, required bool) (time.Time, time.Time) {
	rawStart, rawEnd = strings.TrimSpace(rawStart), strings.TrimSpace(rawEnd)
	if required {
		v.Required(startField, rawStart, "is required")
		v.Required(endField, rawEnd, "is required")
	}
	start, err := ParseDate(rawStart)
	if err != nil {
		v.Add(startField, invalidDateReason)
		start = time.Time{}
	}
	end, err := ParseEndDate(rawEnd)
	if err != nil {
		v.Add(endField, invalidDateReason)
		end = time.Time{}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		v.Add(startField, "must be on or before "+endField)
		v.Add(endField, "must be on or after "+startField)
	}
	return start, end
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns a sorted copy so responses are stable across field order.
func (v *Validator) Issues() []ValidationIssue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := append([]ValidationIssue(nil), v.issues...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Reject writes a 400 with every collected issue and reports whether it did.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "request validation failed",
		map[string]any{"fields": v.Issues()}, requestID)
	return true
}
