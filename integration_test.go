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

//go:build integration

package pagination_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	riverrors "rivaas.dev/errors"
	"rivaas.dev/middleware/pagination"
	"rivaas.dev/middleware/pagination/config"
	"rivaas.dev/middleware/pagination/config/codec"
	"rivaas.dev/router"
)

const integrationConfig = `
routes:
  include: ["/api/users", "/api/orders", "/api/broken"]
  override:
    - routes: ["/api/orders"]
      page: 1
      limit: 2
query:
  limit:
    default: 5
meta:
  name: _meta
  totalCount:
    name: total
results:
  name: data
`

type account struct {
	ID int `json:"id"`
}

func accounts(n int) []account {
	out := make([]account, n)
	for i := range out {
		out[i] = account{ID: i + 1}
	}

	return out
}

// captureHandler keeps log records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)

	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := make([]string, 0, len(h.records))
	for _, r := range h.records {
		msgs = append(msgs, r.Message)
	}

	return msgs
}

// recoverer turns panics into 500 responses, standing in for a recovery middleware.
func recoverer(panics *[]error) router.HandlerFunc {
	return func(c *router.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				if err, ok := rec.(error); ok {
					*panics = append(*panics, err)
				}
				c.Response.WriteHeader(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

type stack struct {
	router  *router.Router
	metrics http.Handler
	logs    *captureHandler
	panics  []error
}

func newStack(cfg *pagination.Config, opts ...pagination.Option) *stack {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	Expect(err).NotTo(HaveOccurred())
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	DeferCleanup(func() { _ = mp.Shutdown(context.Background()) })

	s := &stack{
		metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		logs:    &captureHandler{},
	}

	opts = append([]pagination.Option{
		pagination.WithConfig(cfg),
		pagination.WithMeterProvider(mp),
		pagination.WithLogger(slog.New(s.logs)),
	}, opts...)
	mw, err := pagination.New(opts...)
	Expect(err).NotTo(HaveOccurred())

	r := router.MustNew()
	r.Use(recoverer(&s.panics), mw)

	api := r.Group("/api")
	api.GET("/users", func(c *router.Context) {
		all := accounts(12)
		p, _ := pagination.Get(c)
		start := min(p.Offset(), len(all))
		//nolint:errcheck // Test handler
		c.JSON(http.StatusOK, pagination.Page(all[start:min(start+max(p.Limit, 0), len(all))], len(all)))
	})
	api.GET("/orders", func(c *router.Context) {
		pagination.SetTotalCount(c, 3)
		//nolint:errcheck // Test handler
		c.JSON(http.StatusOK, []string{"a", "b"})
	})
	api.GET("/broken", func(c *router.Context) {
		//nolint:errcheck // Test handler
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	api.GET("/missing", func(c *router.Context) {
		//nolint:errcheck // Test handler
		c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	})
	api.GET("/status", func(c *router.Context) {
		//nolint:errcheck // Test handler
		c.String(http.StatusOK, "up")
	})
	s.router = r

	return s
}

func (s *stack) get(target string) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://api.test"+target, nil))

	var body map[string]any
	if w.Code == http.StatusOK || w.Code == http.StatusBadRequest {
		_ = json.Unmarshal(w.Body.Bytes(), &body)
	}

	return w, body
}

func (s *stack) scrape() string {
	w := httptest.NewRecorder()
	s.metrics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	data, _ := io.ReadAll(w.Body)

	return string(data)
}

var _ = Describe("Pagination Integration", Label("integration"), func() {
	var cfg *pagination.Config

	BeforeEach(func() {
		var err error
		cfg, err = config.Load(context.Background(), config.WithContent([]byte(integrationConfig), codec.TypeYAML))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Configured envelope", func() {
		It("should wrap a results object using the configured names", func() {
			s := newStack(cfg)

			w, body := s.get("/api/users?page=2&q=x")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("application/json"))
			Expect(body).To(HaveKey("data"))
			Expect(body["data"]).To(HaveLen(5))
			Expect(body["_meta"]).To(Equal(map[string]any{
				"page":      float64(2),
				"limit":     float64(5),
				"count":     float64(5),
				"total":     float64(12),
				"pageCount": float64(3),
				"self":      "http://api.test/api/users?limit=5&page=2&q=x",
				"previous":  "http://api.test/api/users?limit=5&page=1&q=x",
				"next":      "http://api.test/api/users?limit=5&page=3&q=x",
				"first":     "http://api.test/api/users?limit=5&page=1&q=x",
				"last":      "http://api.test/api/users?limit=5&page=3&q=x",
			}))
		})

		It("should apply route overrides and the total count side channel", func() {
			s := newStack(cfg)

			w, body := s.get("/api/orders")

			Expect(w.Code).To(Equal(http.StatusOK))
			meta, ok := body["_meta"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(meta["limit"]).To(Equal(float64(2)))
			Expect(meta["total"]).To(Equal(float64(3)))
			Expect(meta["pageCount"]).To(Equal(float64(2)))
			Expect(meta["previous"]).To(BeNil())
			Expect(meta["next"]).To(Equal("http://api.test/api/orders?limit=2&page=2"))
		})

		It("should leave the response alone when pagination is turned off", func() {
			s := newStack(cfg)

			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders?pagination=false", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`["a","b"]`))
		})

		It("should ignore routes outside the include list and error responses", func() {
			s := newStack(cfg)

			w, _ := s.get("/api/status?page=abc")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("up"))

			w, _ = s.get("/api/missing")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Environment overrides", func() {
		It("should let PAGINATION_ variables win over the document", func() {
			GinkgoT().Setenv("PGINT_META_NAME", "paging")
			GinkgoT().Setenv("PGINT_QUERY_LIMIT_DEFAULT", "4")

			envCfg, err := config.Load(context.Background(),
				config.WithContent([]byte(integrationConfig), codec.TypeYAML),
				config.WithEnv("PGINT_"),
			)
			Expect(err).NotTo(HaveOccurred())

			_, body := newStack(envCfg).get("/api/users")
			Expect(body).To(HaveKey("paging"))
			Expect(body["data"]).To(HaveLen(4))
		})
	})

	Describe("Invalid query values", func() {
		It("should replace them with defaults and log at debug level", func() {
			s := newStack(cfg)

			w, body := s.get("/api/users?page=abc")

			Expect(w.Code).To(Equal(http.StatusOK))
			meta, ok := body["_meta"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(meta["page"]).To(Equal(float64(1)))
			Expect(s.logs.messages()).To(ContainElement("invalid pagination values replaced by defaults"))
		})

		It("should fall back to the route override", func() {
			s := newStack(cfg)

			w, body := s.get("/api/orders?limit=lots")

			Expect(w.Code).To(Equal(http.StatusOK))
			meta, ok := body["_meta"].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(meta["page"]).To(Equal(float64(1)))
			Expect(meta["limit"]).To(Equal(float64(2)))
			Expect(body["data"]).To(HaveLen(2))
		})

		It("should reject them with a problem document under the badRequest policy", func() {
			cfg.Query.Invalid = pagination.InvalidBadRequest
			s := newStack(cfg, pagination.WithErrorFormatter(riverrors.NewRFC9457("https://api.test/problems")))

			w, body := s.get("/api/users?limit=lots")

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/problem+json"))
			Expect(body["status"]).To(Equal(float64(http.StatusBadRequest)))
			Expect(fmt.Sprint(body["detail"])).To(Equal("Invalid limit"))
		})
	})

	Describe("Contract violations", func() {
		It("should panic on a non-list body so recovery can answer 500", func() {
			s := newStack(cfg)

			w, _ := s.get("/api/broken")

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(s.panics).To(HaveLen(1))
			Expect(errors.Is(s.panics[0], pagination.ErrResultsNotList)).To(BeTrue())
		})
	})

	Describe("Metrics", func() {
		It("should export request outcomes through Prometheus", func() {
			s := newStack(cfg)

			s.get("/api/users")
			s.get("/api/users?pagination=false")

			out := s.scrape()
			Expect(out).To(ContainSubstring("pagination_requests_total"))
			Expect(out).To(ContainSubstring(`outcome="enveloped"`))
			Expect(out).To(ContainSubstring(`outcome="disabled"`))
			Expect(out).To(ContainSubstring("pagination_page_items"))
		})
	})

	Describe("Configuration round trip", func() {
		It("should load what it encodes", func() {
			for _, format := range []codec.Type{codec.TypeYAML, codec.TypeTOML, codec.TypeJSON} {
				data, err := config.Encode(cfg, format)
				Expect(err).NotTo(HaveOccurred())

				path := GinkgoT().TempDir() + "/pagination." + string(format)
				Expect(os.WriteFile(path, data, 0o600)).To(Succeed())

				again, err := config.Load(context.Background(), config.WithFile(path))
				Expect(err).NotTo(HaveOccurred())
				Expect(again).To(Equal(cfg))
			}
		})
	})
})
