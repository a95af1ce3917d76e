package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/config"
	"github.com/polkiloo/restock/internal/domain/model"
	pkgAuth "github.com/polkiloo/restock/internal/pkg/auth"
	"github.com/polkiloo/restock/internal/pkg/authz"
	testhelpers "github.com/polkiloo/restock/internal/test"
)

var actors = map[string]model.Actor{
	"merchant-token": {ID: "m-1", Role: model.RoleMerchant, ShopRef: "shop-1"},
	"buyer-token":    {ID: "b-1", Role: model.RoleBuyer},
}

func newTestEngine(t *testing.T, cfg *config.Config, facade testhelpers.RestockFacadeStub) *gin.Engine {
	t.Helper()
	enforcer, err := authz.NewEnforcer(authz.DefaultPolicies)
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}
	tokens := testhelpers.TokenParserStub{ParseFn: func(token string) (model.Actor, error) {
		actor, ok := actors[token]
		if !ok {
			return model.Actor{}, pkgAuth.ErrInvalidToken
		}
		return actor, nil
	}}
	engine := Setup(Params{
		Config:    cfg,
		Facade:    facade,
		Tokens:    tokens,
		APIKeys:   testhelpers.KeyVerifierStub{Key: "seed-key"},
		Enforcer:  enforcer,
		Responses: &testhelpers.ResponseCacheStub{},
		Logger:    zap.NewNop(),
	})
	gin.SetMode(gin.TestMode)
	return engine
}

func do(engine *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestSetupRoutes(t *testing.T) {
	engine := newTestEngine(t, &config.Config{}, testhelpers.RestockFacadeStub{})

	cases := []struct {
		name    string
		method  string
		path    string
		body    string
		headers map[string]string
		want    int
	}{
		{"health", http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{"seed without key", http.MethodPost, "/api/internal/restock/orders", `{"skc":"S","shop":"x","plan_quantity":1}`, nil, http.StatusUnauthorized},
		{"seed with key", http.MethodPost, "/api/internal/restock/orders", `{"skc":"S","shop":"x","plan_quantity":1}`, map[string]string{"X-API-Key": "seed-key"}, http.StatusCreated},
		{"list without token", http.MethodGet, "/api/restock/orders", "", nil, http.StatusUnauthorized},
		{"list with bad token", http.MethodGet, "/api/restock/orders", "", bearer("forged"), http.StatusUnauthorized},
		{"merchant lists", http.MethodGet, "/api/restock/orders", "", bearer("merchant-token"), http.StatusOK},
		{"buyer reads", http.MethodGet, "/api/restock/orders/1", "", bearer("buyer-token"), http.StatusOK},
		{"merchant accepts", http.MethodPost, "/api/restock/orders/1/acceptance", `{"quantity":10}`, bearer("merchant-token"), http.StatusOK},
		{"buyer may not accept", http.MethodPost, "/api/restock/orders/1/acceptance", `{"quantity":10}`, bearer("buyer-token"), http.StatusForbidden},
		{"merchant ships", http.MethodPost, "/api/restock/orders/1/logistics", `{"waybill_number":"WB1","carrier":"SF","shipped_quantity":3}`, bearer("merchant-token"), http.StatusOK},
		{"buyer may not ship", http.MethodPost, "/api/restock/orders/1/logistics", `{"waybill_number":"WB1","carrier":"SF","shipped_quantity":3}`, bearer("buyer-token"), http.StatusForbidden},
		{"buyer ledger", http.MethodGet, "/api/restock/orders/1/logistics", "", bearer("buyer-token"), http.StatusOK},
		{"merchant may not review", http.MethodPost, "/api/restock/orders/1/review", `{"approve":true}`, bearer("merchant-token"), http.StatusForbidden},
		{"buyer reviews", http.MethodPost, "/api/restock/orders/1/review", `{"approve":true}`, bearer("buyer-token"), http.StatusOK},
		{"buyer confirms cancellation", http.MethodPost, "/api/restock/orders/1/cancellation", "", bearer("buyer-token"), http.StatusOK},
		{"merchant may not confirm arrival", http.MethodPost, "/api/restock/orders/1/arrival", "", bearer("merchant-token"), http.StatusForbidden},
		{"buyer confirms arrival", http.MethodPost, "/api/restock/orders/1/arrival", "", bearer("buyer-token"), http.StatusOK},
		{"unknown route", http.MethodGet, "/api/user/orders", "", nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(engine, tc.method, tc.path, tc.body, tc.headers)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupReplaysIdempotentRequests(t *testing.T) {
	calls := 0
	facade := testhelpers.RestockFacadeStub{LogisticsFacadeStub: testhelpers.LogisticsFacadeStub{
		ShipFn: func(_ context.Context, _ model.Actor, id int64, _, _ string, _ int) (*model.Aggregate, error) {
			calls++
			return testhelpers.SampleAggregate(id), nil
		},
	}}
	engine := newTestEngine(t, &config.Config{}, facade)

	headers := bearer("merchant-token")
	headers["Idempotency-Key"] = "ship-once"
	body := `{"waybill_number":"WB1","carrier":"SF","shipped_quantity":3}`
	first := do(engine, http.MethodPost, "/api/restock/orders/1/logistics", body, headers)
	second := do(engine, http.MethodPost, "/api/restock/orders/1/logistics", body, headers)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("unexpected statuses %d %d", first.Code, second.Code)
	}
	if calls != 1 || second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected one call and a replay, got %d calls", calls)
	}
}

func TestSetupCompression(t *testing.T) {
	var gotReason string
	facade := testhelpers.RestockFacadeStub{NegotiationFacadeStub: testhelpers.NegotiationFacadeStub{
		DeclineFn: func(_ context.Context, _ model.Actor, id int64, reason string) (*model.Aggregate, error) {
			gotReason = reason
			return testhelpers.SampleAggregate(id), nil
		},
	}}
	engine := newTestEngine(t, &config.Config{}, facade)

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, _ = zw.Write([]byte(`{"reason":"factory closed"}`))
	_ = zw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/restock/orders/1/decline", &compressed)
	req.Header.Set("Authorization", "Bearer merchant-token")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotReason != "factory closed" {
		t.Fatalf("request body was not decompressed, got reason %q", gotReason)
	}
	if resp.Header().Get("Content-Encoding") != "gzip" {
		t.Fatal("expected gzip encoded response")
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil || !bytes.Contains(plain, []byte(`"status":"IN_PRODUCTION"`)) {
		t.Fatalf("unexpected body %q, %v", plain, err)
	}
}

func TestSetupCORS(t *testing.T) {
	engine := newTestEngine(t, &config.Config{CORSOrigins: []string{"https://buyer.example"}}, testhelpers.RestockFacadeStub{})

	req := httptest.NewRequest(http.MethodOptions, "/api/restock/orders", nil)
	req.Header.Set("Origin", "https://buyer.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://buyer.example" {
		t.Fatalf("expected allowed origin, got %q (status %d)", got, resp.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	if corsMiddleware(nil) != nil {
		t.Fatal("expected no middleware without origins")
	}
	if corsMiddleware([]string{" ", ""}) != nil {
		t.Fatal("expected blank origins to be ignored")
	}
	if corsMiddleware([]string{"*"}) == nil {
		t.Fatal("expected wildcard to enable cors")
	}
}
