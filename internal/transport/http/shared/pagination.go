package shared

import (
	"net/http"
	"strconv"

	"hrinsight/internal/transport/http/api"
)

// Pagination is a limit/offset window over a list endpoint. Malformed or
// out-of-range query values fall back to the defaults.
type Pagination struct {
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	q := r.URL.Query()
	p := Pagination{Limit: defaultLimit}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, maxLimit)
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		p.Offset = v
	}
	return p
}

// Write sends one page of results with the total in both the meta block and
// the X-Total-Count header.
func (p Pagination) Write(w http.ResponseWriter, data any, total int, requestID string) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.SuccessWithMeta(w, data, api.Meta{Total: total, Limit: p.Limit, Offset: p.Offset}, requestID)
}
