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

//go:build !integration

package pagination

import (
	"math"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		method    string
		route     string
		query     string
		mutate    func(*Config)
		want      Decision
		wantQuery url.Values
	}{
		{
			name:  "defaults",
			query: "",
			want:  Decision{Applies: true, Enabled: true, Page: 1, Limit: 25},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"1"}, "limit": {"25"},
			},
		},
		{
			name:  "explicit values",
			query: "page=3&limit=10&q=go",
			want:  Decision{Applies: true, Enabled: true, Page: 3, Limit: 10},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"3"}, "limit": {"10"}, "q": {"go"},
			},
		},
		{
			name:      "disabled",
			query:     "pagination=false&page=3",
			want:      Decision{Applies: true, Enabled: false},
			wantQuery: url.Values{"pagination": {"false"}, "page": {"3"}},
		},
		{
			name:   "not a GET",
			method: http.MethodPost,
			query:  "page=3",
			want:   Decision{},
			wantQuery: url.Values{
				"page": {"3"},
			},
		},
		{
			name:      "route excluded",
			query:     "page=x",
			mutate:    func(c *Config) { c.Routes.Exclude = []string{"/items"} },
			want:      Decision{},
			wantQuery: url.Values{"page": {"x"}},
		},
		{
			name:  "route override",
			query: "",
			mutate: func(c *Config) {
				c.Routes.Override = []Override{{Routes: []string{"/items"}, Page: 2, Limit: 5}}
			},
			want: Decision{Applies: true, Enabled: true, Page: 2, Limit: 5},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"2"}, "limit": {"5"},
			},
		},
		{
			name:  "invalid falls back to route override",
			query: "page=abc&limit=xyz",
			mutate: func(c *Config) {
				c.Routes.Override = []Override{{Routes: []string{"/items"}, Page: 3, Limit: 7}}
			},
			want: Decision{Applies: true, Enabled: true, Page: 3, Limit: 7, Replaced: []string{"page", "limit"}},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"3"}, "limit": {"7"},
			},
		},
		{
			name:  "invalid falls back to global default",
			query: "page=abc&limit=xyz",
			want:  Decision{Applies: true, Enabled: true, Page: 1, Limit: 25, Replaced: []string{"page", "limit"}},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"1"}, "limit": {"25"},
			},
		},
		{
			name:  "only the invalid value falls back",
			query: "page=4&limit=xyz",
			mutate: func(c *Config) {
				c.Routes.Override = []Override{{Routes: []string{"/items"}, Page: 3, Limit: 7}}
			},
			want: Decision{Applies: true, Enabled: true, Page: 4, Limit: 7, Replaced: []string{"limit"}},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"4"}, "limit": {"7"},
			},
		},
		{
			name:  "no bounds checks",
			query: "page=-4&limit=0",
			want:  Decision{Applies: true, Enabled: true, Page: -4, Limit: 0},
			wantQuery: url.Values{
				"pagination": {"true"}, "page": {"-4"}, "limit": {"0"},
			},
		},
		{
			name:  "custom names",
			query: "p=4&size=9&paged=true",
			mutate: func(c *Config) {
				c.Query.Page.Name = "p"
				c.Query.Limit.Name = "size"
				c.Query.Pagination.Name = "paged"
			},
			want: Decision{Applies: true, Enabled: true, Page: 4, Limit: 9},
			wantQuery: url.Values{
				"paged": {"true"}, "p": {"4"}, "size": {"9"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := cfg.Normalize(method, "/items", query)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantQuery, query)
		})
	}
}

func TestConfig_NormalizeBadRequest(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Query.Invalid = InvalidBadRequest

	tests := []struct {
		query    string
		wantErr  error
		wantMsg  string
		wantCode string
	}{
		{query: "page=abc", wantErr: ErrInvalidPage, wantMsg: "Invalid page", wantCode: "invalid_page"},
		{query: "page=", wantErr: ErrInvalidPage, wantMsg: "Invalid page", wantCode: "invalid_page"},
		{query: "page=1&limit=ten", wantErr: ErrInvalidLimit, wantMsg: "Invalid limit", wantCode: "invalid_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			t.Parallel()
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = cfg.Normalize(http.MethodGet, "/", query)

			require.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)

			var qerr *InvalidQueryError
			require.ErrorAs(t, err, &qerr)
			assert.Equal(t, http.StatusBadRequest, qerr.HTTPStatus())
			assert.Equal(t, tt.wantCode, qerr.Code())
		})
	}
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "5", want: 5, wantOK: true},
		{in: "  42", want: 42, wantOK: true},
		{in: "+7", want: 7, wantOK: true},
		{in: "-3", want: -3, wantOK: true},
		{in: "5abc", want: 5, wantOK: true},
		{in: "12.9", want: 12, wantOK: true},
		{in: "0x1A", want: 26, wantOK: true},
		{in: "007", want: 7, wantOK: true},
		{in: "99999999999999999999999", want: math.MaxInt, wantOK: true},
		{in: "abc5", wantOK: false},
		{in: "", wantOK: false},
		{in: "-", wantOK: false},
		{in: "0x", want: 0, wantOK: true},
		{in: " ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := parseInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
