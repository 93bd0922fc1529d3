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

// Package config loads pagination middleware configuration from files,
// in-memory documents and environment variables.
//
// # Quick Start
//
//	cfg, err := config.Load(ctx,
//	    config.WithFile("pagination.yaml"),
//	    config.WithEnv("PAGINATION_"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(pagination.MustNew(pagination.WithConfig(cfg)))
//
// # File Format
//
// Keys mirror [pagination.Config] and are case-insensitive. Anything left out
// keeps its default.
//
//	routes:
//	  include: ["*"]
//	  exclude: ["/health"]
//	  override:
//	    - routes: ["/reports"]
//	      page: 1
//	      limit: 100
//	query:
//	  limit:
//	    default: 50
//	  invalid: badRequest
//	meta:
//	  name: _meta
//	  baseUri: https://api.example.com
//	  totalCount:
//	    name: total
//	  self:
//	    active: false
//	results:
//	  name: data
//
// meta.results.name is accepted as another spelling of results.name.
//
// # Pipeline
//
// Sources are loaded in order and merged, later sources winning. Keys are
// lowercased, string values are converted to the type of the matching default
// (so PAGINATION_QUERY_PAGINATION_DEFAULT=false is a boolean), and the tree is
// checked against the JSON Schema returned by [Schema]. The result is decoded
// over [pagination.DefaultConfig] and validated with
// [pagination.Config.Validate]. Lists replace their defaults rather than
// extending them.
//
// Every failure is an [*Error] naming the source and operation. Invalid
// values also match [pagination.ErrInvalidConfig].
package config
