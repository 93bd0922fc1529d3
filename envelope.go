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
	"maps"
	"net/url"
	"strconv"
)

// EnvelopeInput is everything [Config.Envelope] needs from a request and its
// response.
type EnvelopeInput struct {
	// Origin is the request's scheme and host ("https://api.example.com").
	// Ignored when MetaConfig.BaseURI is set.
	Origin string

	// Path is the request path, without query.
	Path string

	// Query is the normalized request query. It is not modified.
	Query url.Values

	// Page and Limit are the values resolved by [Config.Normalize].
	Page  int
	Limit int

	// Payload is the decoded handler response.
	Payload Payload

	// TotalCount is the side-channel total set with [SetTotalCount]. It is
	// used only when the payload carries none.
	TotalCount *int
}

// Envelope builds the paginated response body:
//
//	{"<meta.name>": {...}, "<results.name>": [...]}
//
// Only active metadata fields are emitted, keyed by their configured names.
// Links drop the pagination flag and keep every other query parameter. When
// the total count is unknown, totalCount, pageCount, next and last are null.
func (c *Config) Envelope(in EnvelopeInput) map[string]any {
	items := in.Payload.Items()

	total, known := in.Payload.TotalCount()
	if !known && in.TotalCount != nil {
		total, known = *in.TotalCount, true
	}

	pageCount, hasPageCount := countPages(total, in.Limit)
	hasPageCount = hasPageCount && known

	l := c.links(in)
	meta := make(map[string]any, 10)

	if c.Meta.Page.Active {
		meta[c.Meta.Page.Name] = in.Page
	}
	if c.Meta.Limit.Active {
		meta[c.Meta.Limit.Name] = in.Limit
	}
	if c.Meta.Count.Active {
		meta[c.Meta.Count.Name] = len(items)
	}
	if c.Meta.TotalCount.Active {
		meta[c.Meta.TotalCount.Name] = nullable(total, known)
	}
	if c.Meta.PageCount.Active {
		meta[c.Meta.PageCount.Name] = nullable(pageCount, hasPageCount)
	}
	if c.Meta.Self.Active {
		meta[c.Meta.Self.Name] = l.self()
	}
	if c.Meta.Previous.Active {
		// Null on page 1 only, even when page is out of range.
		meta[c.Meta.Previous.Name] = nil
		if in.Page != 1 {
			meta[c.Meta.Previous.Name] = l.page(in.Page - 1)
		}
	}
	if c.Meta.Next.Active {
		meta[c.Meta.Next.Name] = nil
		if hasPageCount && in.Page < pageCount {
			meta[c.Meta.Next.Name] = l.page(in.Page + 1)
		}
	}
	if c.Meta.First.Active {
		meta[c.Meta.First.Name] = l.page(1)
	}
	if c.Meta.Last.Active {
		meta[c.Meta.Last.Name] = nil
		if hasPageCount {
			meta[c.Meta.Last.Name] = l.page(pageCount)
		}
	}

	return map[string]any{
		c.Meta.Name:    meta,
		c.Results.Name: items,
	}
}

// countPages returns ceil(total/limit). A non-positive limit has no page count.
func countPages(total, limit int) (int, bool) {
	if limit <= 0 {
		return 0, false
	}

	n := total / limit
	if total%limit > 0 {
		n++
	}

	return n, true
}

// nullable returns v, or nil so the JSON value is null.
func nullable(v int, ok bool) any {
	if !ok {
		return nil
	}

	return v
}

// linkBuilder renders navigation links for one response.
type linkBuilder struct {
	base      string
	query     url.Values
	pageParam string
}

// links prepares the link base and a copy of the query without the
// pagination flag.
func (c *Config) links(in EnvelopeInput) linkBuilder {
	origin := in.Origin
	if c.Meta.BaseURI != "" {
		origin = c.Meta.BaseURI
	}

	query := maps.Clone(in.Query)
	if query == nil {
		query = url.Values{}
	}
	query.Del(c.Query.Pagination.Name)

	return linkBuilder{
		base:      origin + in.Path + "?",
		query:     query,
		pageParam: c.Query.Page.Name,
	}
}

func (l linkBuilder) self() string {
	return l.base + l.query.Encode()
}

// page returns the link to page n; other parameters are unchanged.
func (l linkBuilder) page(n int) string {
	q := maps.Clone(l.query)
	q.Set(l.pageParam, strconv.Itoa(n))

	return l.base + q.Encode()
}

// marshalEnvelope encodes an envelope without HTML escaping, so links keep
// their literal '&' separators.
func marshalEnvelope(v map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
