// Package params reads typed values from query strings and route variables.
// Malformed values are rejected, never replaced by a default.
package params

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tair/eco-catalog/pkg/apperror"
)

// QueryInt returns the integer query parameter name, or def when it is absent or empty.
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.InvalidArgument(name, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

// PathID returns the route variable name as a positive id.
func PathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, apperror.InvalidArgument(name, fmt.Sprintf("%s must be a positive integer", name))
	}
	return uint(v), nil
}
