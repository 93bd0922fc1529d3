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
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "rivaas.dev/middleware/pagination"

// Outcome labels for the pagination_requests_total counter.
const (
	outcomeEnveloped   = "enveloped"
	outcomeDisabled    = "disabled"
	outcomePassthrough = "passthrough"
	outcomeRejected    = "rejected"
)

var outcomeKey = attribute.Key("outcome")

// instruments holds the OpenTelemetry instruments of one middleware instance.
type instruments struct {
	requests metric.Int64Counter
	items    metric.Int64Histogram
}

// newInstruments creates the instruments on the given provider, or on the
// global provider when mp is nil.
func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter(
		"pagination_requests_total",
		metric.WithDescription("Total number of in-scope GET requests seen by the pagination middleware, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pagination_requests_total counter: %w", err)
	}

	items, err := meter.Int64Histogram(
		"pagination_page_items",
		metric.WithDescription("Number of result items per paginated response"),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pagination_page_items histogram: %w", err)
	}

	return &instruments{requests: requests, items: items}, nil
}

func (i *instruments) record(ctx context.Context, outcome string) {
	i.requests.Add(ctx, 1, metric.WithAttributes(outcomeKey.String(outcome)))
}

func (i *instruments) recordItems(ctx context.Context, n int) {
	i.items.Record(ctx, int64(n))
}

// annotateSpan adds the resolved pagination to the active span, if any.
func annotateSpan(ctx context.Context, d Decision) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Bool("pagination.enabled", d.Enabled))
	if d.Enabled {
		span.SetAttributes(
			attribute.Int("pagination.page", d.Page),
			attribute.Int("pagination.limit", d.Limit),
		)
	}
}
