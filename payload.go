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
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a decoded handler response. It is either a [List] or a [Wrapped].
type Payload interface {
	// Items returns the result items, never nil.
	Items() []json.RawMessage

	// TotalCount returns the total number of items across all pages, when the
	// payload carries it.
	TotalCount() (int, bool)

	payload()
}

// List is a bare JSON array response.
type List []json.RawMessage

// Items returns the array elements.
func (l List) Items() []json.RawMessage {
	if l == nil {
		return []json.RawMessage{}
	}

	return l
}

// TotalCount always reports false: a bare array carries no total.
func (List) TotalCount() (int, bool) { return 0, false }

func (List) payload() {}

// Wrapped is an object response of the form {"results": [...], "totalCount": n}.
type Wrapped struct {
	Results []json.RawMessage
	Total   *int
}

// Items returns the "results" array.
func (w Wrapped) Items() []json.RawMessage {
	if w.Results == nil {
		return []json.RawMessage{}
	}

	return w.Results
}

// TotalCount returns "totalCount" when present and not null.
func (w Wrapped) TotalCount() (int, bool) {
	if w.Total == nil {
		return 0, false
	}

	return *w.Total, true
}

func (Wrapped) payload() {}

// DecodePayload resolves a JSON response body into a [Payload]. Items are kept
// as raw JSON and never re-encoded.
//
// Any body that is not an array, or an object whose "results" member is an
// array, returns an error wrapping [ErrResultsNotList].
func DecodePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrResultsNotList)
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResultsNotList, err)
		}

		return List(items), nil

	case '{':
		var obj struct {
			Results    json.RawMessage `json:"results"`
			TotalCount json.RawMessage `json:"totalCount"`
		}
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResultsNotList, err)
		}

		results := bytes.TrimSpace(obj.Results)
		if len(results) == 0 || results[0] != '[' {
			return nil, fmt.Errorf("%w: \"results\" is not an array", ErrResultsNotList)
		}

		w := Wrapped{}
		if err := json.Unmarshal(results, &w.Results); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResultsNotList, err)
		}

		total := bytes.TrimSpace(obj.TotalCount)
		if len(total) > 0 && !bytes.Equal(total, []byte("null")) {
			var n int
			if err := json.Unmarshal(total, &n); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidTotalCount, err)
			}
			w.Total = &n
		}

		return w, nil

	default:
		return nil, fmt.Errorf("%w: body starts with %q", ErrResultsNotList, body[0])
	}
}

// Result is the wrapped response shape for handlers that know the total
// number of items. Build it with [Page].
type Result[T any] struct {
	Results    []T `json:"results"`
	TotalCount int `json:"totalCount"`
}

// Page wraps one page of items with the total count across all pages.
//
// Example:
//
//	r.GET("/users", func(c *router.Context) {
//	    p, _ := pagination.Get(c)
//	    users, total := store.List(p.Offset(), p.Limit)
//	    c.JSON(http.StatusOK, pagination.Page(users, total))
//	})
func Page[T any](items []T, total int) Result[T] {
	if items == nil {
		items = []T{}
	}

	return Result[T]{Results: items, TotalCount: total}
}
