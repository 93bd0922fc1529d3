// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

const (
	paramPage  = "page"
	paramLimit = "limit"
)

// Decision is the outcome of [Config.Normalize] for one request.
type Decision struct {
	// Applies is false when the method or route is out of scope; the query is
	// then left untouched and no other field is meaningful.
	Applies bool

	// Enabled is the resolved pagination flag.
	Enabled bool

	// Page and Limit are the resolved values. Zero when Enabled is false.
	Page  int
	Limit int

	// Replaced lists the parameters ("page", "limit") whose explicit value was
	// unparsable and replaced by the route default.
	Replaced []string
}

// Normalize resolves pagination for a request and rewrites the query in place.
//
// The pagination flag is "false", "true" or the configured default, and is
// written back as "true"/"false". When enabled, page and limit start from the
// route defaults (see [Config.Defaults]); explicit query values replace them.
// An explicit value that is not an integer is replaced by that route default
// under [InvalidDefaults], or fails with an [*InvalidQueryError] under
// [InvalidBadRequest]. The final page and limit are written back as decimal
// strings; no bounds are enforced.
func (c *Config) Normalize(method, route string, query url.Values) (Decision, error) {
	if !c.Applies(method, route) {
		return Decision{}, nil
	}

	d := Decision{Applies: true, Enabled: c.paginationFlag(query)}
	query.Set(c.Query.Pagination.Name, strconv.FormatBool(d.Enabled))
	if !d.Enabled {
		return d, nil
	}

	d.Page, d.Limit = c.Defaults(route)

	page, replaced, err := c.explicit(query, paramPage, c.Query.Page.Name, d.Page)
	if err != nil {
		return Decision{}, err
	}
	if page != nil {
		d.Page = *page
	}
	if replaced {
		d.Replaced = append(d.Replaced, paramPage)
	}

	limit, replaced, err := c.explicit(query, paramLimit, c.Query.Limit.Name, d.Limit)
	if err != nil {
		return Decision{}, err
	}
	if limit != nil {
		d.Limit = *limit
	}
	if replaced {
		d.Replaced = append(d.Replaced, paramLimit)
	}

	query.Set(c.Query.Page.Name, strconv.Itoa(d.Page))
	query.Set(c.Query.Limit.Name, strconv.Itoa(d.Limit))

	return d, nil
}

// paginationFlag reads the flag; anything but "true" or "false" means the default.
func (c *Config) paginationFlag(query url.Values) bool {
	switch query.Get(c.Query.Pagination.Name) {
	case "false":
		return false
	case "true":
		return true
	default:
		return c.Query.Pagination.Default
	}
}

// explicit returns the value given in the query under name, or nil when
// absent. An unparsable value yields def (replaced is true) or an error,
// depending on the policy.
func (c *Config) explicit(query url.Values, param, name string, def int) (v *int, replaced bool, err error) {
	if !query.Has(name) {
		return nil, false, nil
	}

	raw := query.Get(name)
	n, ok := parseInt(raw)
	if ok {
		return &n, false, nil
	}

	if c.Query.Invalid == InvalidBadRequest {
		return nil, false, &InvalidQueryError{Param: param, Value: raw}
	}

	return &def, true, nil
}

// parseInt reads a leading integer the way lenient query parsers do: leading
// whitespace is skipped, an optional sign is accepted, "0x" selects base 16
// and parsing stops at the first non-digit ("5abc" is 5, "abc5" fails).
// Values beyond the int range saturate.
func parseInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 0)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		n = math.MaxInt
	}
	if neg {
		n = -n
	}

	return int(n), true
}

func isDigit(b byte, base int) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case base == 16:
		return (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	default:
		return false
	}
}
