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
	"net/http"
	"slices"
)

// Matches reports whether the route pattern is in scope: included and not
// excluded. [Wildcard] includes every route only when it is the sole include
// entry; inside a longer list it is an ordinary pattern.
func (c *Config) Matches(route string) bool {
	if slices.Contains(c.Routes.Exclude, route) {
		return false
	}

	if len(c.Routes.Include) == 1 && c.Routes.Include[0] == Wildcard {
		return true
	}

	return slices.Contains(c.Routes.Include, route)
}

// Applies reports whether pagination applies to a request. Only GET requests
// on in-scope routes are paginated.
func (c *Config) Applies(method, route string) bool {
	return method == http.MethodGet && c.Matches(route)
}

// Defaults returns the page and limit defaults for a route. The first override
// listing the route wins; otherwise the global defaults apply.
func (c *Config) Defaults(route string) (page, limit int) {
	for _, o := range c.Routes.Override {
		if slices.Contains(o.Routes, route) {
			return o.Page, o.Limit
		}
	}

	return c.Query.Page.Default, c.Query.Limit.Default
}
