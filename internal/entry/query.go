package entry

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
)

// QueryParams holds parsed and validated query parameters for list
// endpoints.
type QueryParams struct {
	Page    int
	PerPage int
	Sort    string
	Order   string            // "asc" or "desc"
	Status  Status            // optional status filter (admin listings only)
	Filters map[string]string // data key -> value, matched against the JSONB map
	Search  string            // substring search over the serialized data
}

// sortColumns are the valid sort targets. User-defined fields live inside
// the JSONB data and are not sortable; only the system columns are, which
// also keeps the ORDER BY clause free of user input.
var sortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
	"status":       true,
	"id":           true,
}

// ParseQueryParams extracts and validates query parameters from the request
// URL against the given content type.
func ParseQueryParams(r *http.Request, ct contenttype.ContentType) (QueryParams, error) {
	q := QueryParams{
		Page:    1,
		PerPage: 20,
		Sort:    "created_at",
		Order:   "desc",
		Filters: make(map[string]string),
	}

	query := r.URL.Query()

	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return q, fmt.Errorf("page must be a positive integer")
		}
		q.Page = page
	}

	if v := query.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 {
			return q, fmt.Errorf("per_page must be a positive integer")
		}
		if perPage > 100 {
			perPage = 100
		}
		q.PerPage = perPage
	}

	if v := query.Get("sort"); v != "" {
		if !sortColumns[v] {
			return q, fmt.Errorf("invalid sort field: %s", v)
		}
		q.Sort = v
	}

	if v := query.Get("order"); v != "" {
		lower := strings.ToLower(v)
		if lower != "asc" && lower != "desc" {
			return q, fmt.Errorf("order must be 'asc' or 'desc'")
		}
		q.Order = lower
	}

	if v := query.Get("status"); v != "" {
		status := Status(v)
		if !validStatuses[status] {
			return q, fmt.Errorf("status must be one of: draft, published, archived")
		}
		q.Status = status
	}

	// Field filters: filter[apiIdentifier]=value. Only keys that exist on
	// the current descriptor list are accepted; orphaned keys are readable
	// but not filterable.
	for key, values := range query {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		fieldName := key[len("filter[") : len(key)-1]
		if _, ok := ct.FieldByIdentifier(fieldName); !ok {
			return q, fmt.Errorf("invalid filter field: %s", fieldName)
		}
		if len(values) > 0 {
			q.Filters[fieldName] = values[0]
		}
	}

	q.Search = query.Get("q")

	return q, nil
}
