package dto_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
	"travelnest/shared/constant"
	"travelnest/shared/dto"
	"travelnest/shared/model"
	"travelnest/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	want := dto.Metadata{
		CreatedAt:  timezone.Format(createdAt, constant.DateFormat),
		CreatedBy:  "creator",
		ModifiedAt: timezone.Format(modifiedAt, constant.DateFormat),
		ModifiedBy: "modifier",
	}
	if *metadata != want {
		t.Errorf("expected %+v, got %+v", want, *metadata)
	}
}

func TestMetadata_FromModelNeverModified(t *testing.T) {
	metadata := &dto.Metadata{ModifiedBy: "stale"}
	metadata.FromModel(model.Metadata{CreatedAt: time.Now(), CreatedBy: "system"})

	if metadata.ModifiedAt != "" || metadata.ModifiedBy != "" {
		t.Errorf("expected empty modification fields, got %+v", *metadata)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    url.Values
		expected dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"name"}, "sort_dir": {"asc"}},
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc},
		},
		{
			name:     "defaults",
			query:    url.Values{},
			expected: dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "invalid page",
			query:    url.Values{"page": {"first"}},
			expected: dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "negative page and limit",
			query:    url.Values{"page": {"-1"}, "limit": {"-10"}},
			expected: dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit is capped",
			query:    url.Values{"limit": {"5000"}},
			expected: dto.QueryParams{Page: constant.DefaultValuePage, Limit: dto.MaxLimit},
		},
		{
			name:     "unknown direction ignored",
			query:    url.Values{"page": {"3"}, "sort_by": {"price"}, "sort_dir": {"sideways"}},
			expected: dto.QueryParams{Page: 3, Limit: constant.DefaultValueLimit, SortBy: "price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/hotels?"+tt.query.Encode(), nil)

			params := dto.QueryParams{}
			params.FromRequest(req)

			if params != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	tests := []struct {
		params dto.QueryParams
		want   int
	}{
		{params: dto.QueryParams{Page: 1, Limit: 10}, want: 0},
		{params: dto.QueryParams{Page: 3, Limit: 10}, want: 20},
		{params: dto.QueryParams{Page: 0, Limit: 10}, want: 0},
		{params: dto.QueryParams{Page: 4}, want: 0},
	}

	for _, tt := range tests {
		if got := tt.params.Offset(); got != tt.want {
			t.Errorf("Offset(%+v) = %d, want %d", tt.params, got, tt.want)
		}
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	tests := []struct {
		name     string
		params   dto.QueryParams
		expected dto.QueryParams
		kept     bool
	}{
		{
			name:     "allowed column is kept",
			params:   dto.QueryParams{SortBy: "price", SortDir: dto.SortDirAsc},
			expected: dto.QueryParams{SortBy: "price", SortDir: dto.SortDirAsc},
			kept:     true,
		},
		{
			name:     "allowed column without direction gets fallback direction",
			params:   dto.QueryParams{SortBy: "price"},
			expected: dto.QueryParams{SortBy: "price", SortDir: dto.SortDirDesc},
			kept:     true,
		},
		{
			name:     "unknown column falls back",
			params:   dto.QueryParams{SortBy: "price; DROP TABLE rooms", SortDir: dto.SortDirAsc},
			expected: dto.QueryParams{SortBy: "rooms.id", SortDir: dto.SortDirDesc},
		},
		{
			name:     "empty column falls back",
			params:   dto.QueryParams{},
			expected: dto.QueryParams{SortBy: "rooms.id", SortDir: dto.SortDirDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			kept := params.RestrictSort("rooms.id", dto.SortDirDesc, "price", "room_type")

			if params != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}

			if kept != tt.kept {
				t.Errorf("expected kept %v, got %v", tt.kept, kept)
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "country", Value: "France", Operator: dto.FilterOperatorEq, Table: "destinations"},
			dto.Filter{ArgName: "min_price", Field: "base_price", Value: 100, Operator: dto.FilterOperatorGreaterEq, Table: "hotels"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "search_name", Field: "name", Value: "park", Operator: dto.FilterOperatorLike, Table: "hotels"},
					dto.Filter{ArgName: "search_desc", Field: "description", Value: "park", Operator: dto.FilterOperatorLike, Table: "destinations"},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	expectedWhere := "(destinations.country = :country AND hotels.base_price >= :min_price AND " +
		"(LOWER(hotels.name) LIKE LOWER(:search_name) OR LOWER(destinations.description) LIKE LOWER(:search_desc)))"
	if where != expectedWhere {
		t.Errorf("expected where %q, got %q", expectedWhere, where)
	}

	if args["country"] != "France" || args["min_price"] != 100 || args["search_name"] != "%park%" {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestFilter_In(t *testing.T) {
	filter := dto.Filter{Field: "country", Value: []string{"France", "Japan"}, Operator: dto.FilterOperatorIn}

	where, args := filter.GetWhereClause()

	if where != "country IN (:country_0, :country_1)" {
		t.Errorf("unexpected where %q", where)
	}

	if args["country_0"] != "France" || args["country_1"] != "Japan" {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestFilter_InEmpty(t *testing.T) {
	filter := dto.Filter{Field: "country", Value: []string{}, Operator: dto.FilterOperatorIn}

	where, args := filter.GetWhereClause()

	if where != "1 = 0" {
		t.Errorf("unexpected where %q", where)
	}

	if len(args) != 0 {
		t.Errorf("unexpected args %+v", args)
	}
}

func TestFilterGroup_DefaultsToAndAndSkipsEmpty(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "ignored", Operator: dto.FilterPlainQuery},
			dto.FilterGroup{},
			dto.Filter{Field: "cancelled_at", Operator: dto.FilterIsNull},
		},
	}

	where, args := group.GetWhereClause()

	if where != "(status = :status AND cancelled_at IS NULL)" {
		t.Errorf("unexpected where %q", where)
	}

	if args["status"] != "confirmed" || len(args) != 1 {
		t.Errorf("unexpected args %+v", args)
	}
}
