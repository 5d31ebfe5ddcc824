package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"travelnest/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// MaxLimit caps the page size a client can ask for.
const MaxLimit = 100

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Missing or non-positive page and limit fall back to the defaults and limit
// is capped at MaxLimit. SortBy is taken verbatim, so callers must pass it
// through RestrictSort before it reaches SQL.
func (q *QueryParams) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.Page = positiveOr(query.Get(constant.RequestParamPage), constant.DefaultValuePage)
	q.Limit = min(positiveOr(query.Get(constant.RequestParamLimit), constant.DefaultValueLimit), MaxLimit)

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}
}

func positiveOr(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}

	return value
}

// Offset is the number of rows skipped before the current page.
func (q *QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

// RestrictSort keeps SortBy only when it names one of the allowed columns and
// otherwise falls back to the given ordering. It reports whether the
// requested column was kept.
func (q *QueryParams) RestrictSort(fallbackBy, fallbackDir string, allowed ...string) bool {
	kept := q.SortBy != "" && slices.Contains(allowed, q.SortBy)

	if !kept {
		q.SortBy = fallbackBy
		q.SortDir = fallbackDir
	}

	if q.SortDir == "" {
		q.SortDir = fallbackDir
	}

	return kept
}
