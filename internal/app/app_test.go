package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/autoparts-storefront/internal/handler"
	"github.com/xenking/autoparts-storefront/internal/storage/memory"
	"github.com/xenking/autoparts-storefront/pkg/health"
	"github.com/xenking/autoparts-storefront/pkg/httpmiddleware"
)

type noopTelemetry struct{}

func (noopTelemetry) TracerProvider() trace.TracerProvider { return tracenoop.NewTracerProvider() }
func (noopTelemetry) MeterProvider() metric.MeterProvider  { return metricnoop.NewMeterProvider() }

// fakeBackend serves the subset of the storefront backend API the service
// calls and records mutating requests.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	call := r.Method + " " + r.URL.Path
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	b.calls = append(b.calls, call+" user="+r.Header.Get("X-User-Id"))
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

const pastilha = `{"id":"p1","name":"Pastilha de freio","price":175.00,"category":"Freios",` +
	`"brand":"VOLKSWAGEN","images":["p1.jpg"],"active":true}`

const disco = `{"id":"p7","name":"Disco de freio","price":249.90,"category":"Freios",` +
	`"brand":"Fremax","supplierId":"s1","active":true}`

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("GET /api/cars/plate/{plate}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("plate") != "ABC1D23" {
			writeJSON(w, http.StatusNotFound, `{"message":"car not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"plate":"ABC1D23","name":"Gol 1.0","brand":"Volkswagen","model":"Gol","year":"2019"}`)
	})
	mux.HandleFunc("GET /api/products/brand/{brand}", func(w http.ResponseWriter, r *http.Request) {
		content := ""
		if r.PathValue("brand") == "VOLKSWAGEN" {
			content = pastilha
		}
		writeJSON(w, http.StatusOK, `{"content":[`+content+`],"totalElements":1,"totalPages":1,"size":10,"number":0,"first":true,"last":true}`)
	})
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "p1":
			writeJSON(w, http.StatusOK, pastilha)
		case "p7":
			writeJSON(w, http.StatusOK, disco)
		default:
			writeJSON(w, http.StatusNotFound, `{"message":"product not found"}`)
		}
	})
	mux.HandleFunc("GET /api/products/supplier/{id}", func(w http.ResponseWriter, r *http.Request) {
		content := ""
		if r.PathValue("id") == "s1" {
			content = disco
		}
		writeJSON(w, http.StatusOK, `{"content":[`+content+`],"totalElements":1,"totalPages":1,"size":20,"number":0,"first":true,"last":true}`)
	})
	mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/suppliers/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Id") != "u-sup" {
			writeJSON(w, http.StatusNotFound, `{"message":"supplier not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"s1","name":"Auto Peças Silva","email":"contato@silva.com.br"}`)
	})
	mux.HandleFunc("POST /api/cart/{user}", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusCreated, `{}`)
	})
	mux.HandleFunc("DELETE /api/cart/{user}/clear", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /api/cart/{user}/add", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusOK, `{}`)
	})
	mux.HandleFunc("POST /api/cart/{user}/checkout", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		writeJSON(w, http.StatusCreated, `{"id":"ord-1","user":{"id":"`+r.PathValue("user")+`"},`+
			`"items":[{"product":{"id":"p1"},"quantity":2}],"totalAmount":350.00,"totalItems":2,`+
			`"status":"PENDING","createdAt":"2026-10-16T12:00:00"}`)
	})
	return mux
}

type testServer struct {
	router   http.Handler
	backend  *fakeBackend
	receipts *memory.Receipts
}

func newTestServer(t *testing.T, mutate func(cfg *Config)) *testServer {
	t.Helper()

	b := &fakeBackend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	cfg := &Config{
		BackendURL:         srv.URL + "/api",
		SessionIdleTimeout: time.Hour,
		VehicleCache:       VehicleCacheConfig{TTL: time.Minute, NegativeTTL: time.Minute},
		RateLimit:          RateLimitConfig{Max: 100, Window: time.Minute},
		CORS:               CORSConfig{Origins: []string{"*"}},
	}
	if mutate != nil {
		mutate(cfg)
	}

	st := newMemoryStorage()
	healthSvc := health.New()
	healthSvc.SetReady(true)

	ctx := zctx.Base(context.Background(), zaptest.NewLogger(t))
	router, err := newRouter(ctx, cfg, st, noopTelemetry{}, healthSvc)
	require.NoError(t, err)

	return &testServer{router: router, backend: b, receipts: st.receipts.(*memory.Receipts)}
}

func (s *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRouter_CheckoutFlow(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/vehicles/abc-1d23/recommendations", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(httpmiddleware.RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"brand":"VOLKSWAGEN"`)
	assert.Contains(t, w.Body.String(), `"id":"p1"`)
	sid := w.Header().Get(handler.SessionHeader)
	require.NotEmpty(t, sid)

	w = s.do(http.MethodPost, "/api/cart/items", `{"productId":"p1","quantity":2}`, handler.SessionHeader, sid)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"subtotal":350.00`)

	w = s.do(http.MethodPost, "/api/cart/coupon", `{"code":"autoparts10"}`, handler.SessionHeader, sid)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"finalTotal":297.50`)

	w = s.do(http.MethodPost, "/api/checkout",
		`{"name":"Maria Silva","email":"maria@example.com","address":"Rua A, 10","cep":"01310100","phone":"11987654321"}`,
		handler.SessionHeader, sid, handler.UserHeader, "u-42")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"orderId":"ord-1"`)

	assert.Equal(t, []string{
		"POST /api/cart/u-42 user=u-42",
		"DELETE /api/cart/u-42/clear user=u-42",
		"POST /api/cart/u-42/add?productId=p1&quantity=2 user=u-42",
		"POST /api/cart/u-42/checkout user=u-42",
	}, s.backend.Calls())

	receipts := s.receipts.ByUser("u-42")
	require.Len(t, receipts, 1)
	assert.Equal(t, "ord-1", receipts[0].OrderID)
	assert.Equal(t, "AUTOPARTS10", receipts[0].CouponCode)
	assert.Equal(t, "297.5", receipts[0].Total.String())

	w = s.do(http.MethodGet, "/api/cart", "", handler.SessionHeader, sid)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestRouter_SupplierConsole(t *testing.T) {
	s := newTestServer(t, nil)
	user := []string{handler.UserHeader, "u-sup"}

	w := s.do(http.MethodGet, "/api/supplier/profile", "", handler.UserHeader, "u-other")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/supplier/products", "", user...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":"p7"`)
	assert.Contains(t, w.Body.String(), `"supplierId":"s1"`)

	w = s.do(http.MethodDelete, "/api/supplier/products/p1", "", user...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/supplier/products/p7", "", user...)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, []string{"DELETE /api/products/p7 user=u-sup"}, s.backend.Calls())
}

func TestRouter_UnknownVehicle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/vehicles/QQQ1111/recommendations", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":404`)
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/livez", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodOptions, "/api/cart", "",
		"Origin", "https://shop.example.com",
		"Access-Control-Request-Method", http.MethodPost,
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), handler.SessionHeader)

	w = s.do(http.MethodGet, "/api/cart", "", "Origin", "https://shop.example.com")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), handler.SessionHeader)
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *Config) {
		cfg.RateLimit = RateLimitConfig{Max: 2, Window: time.Hour}
	})

	for range 2 {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/categories", "").Code)
	}
	w := s.do(http.MethodGet, "/api/categories", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/livez", "", httpmiddleware.RequestIDHeader, "custom-request-id-12345")
	assert.Equal(t, "custom-request-id-12345", w.Header().Get(httpmiddleware.RequestIDHeader))
}
