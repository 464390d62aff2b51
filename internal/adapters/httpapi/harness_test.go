package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/idempotency"
	memitemrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/itemrepo"
	memplanrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/planrepo"
	memrespcache "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/respcache"
	memsharerepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/sharerepo"
	memtxn "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/txn"
	memuserrepo "github.com/Overland-East-Bay/travel-planner-api/internal/adapters/memory/userrepo"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/itinerary"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/plans"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/recommendations"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/sharing"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/statistics"
	"github.com/Overland-East-Bay/travel-planner-api/internal/app/users"
)

type stubGenerator struct {
	text  string
	calls int
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.text, nil
}

func newTestServer(t *testing.T) (*Server, *stubGenerator) {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	planRepo := memplanrepo.NewRepo()
	itemRepo := memitemrepo.NewRepo()
	shareRepo := memsharerepo.NewRepo()
	userRepo := memuserrepo.NewRepo()
	tx := memtxn.NewRunner()
	gen := &stubGenerator{text: `[{"activity":"Senso-ji Temple","location":"Asakusa","cost":0}]`}

	sh := sharing.NewService(planRepo, shareRepo, userRepo, tx, clk)
	svc := Services{
		Users:           users.NewService(userRepo, nil, clk),
		Plans:           plans.NewService(planRepo, itemRepo, shareRepo, sh, tx, clk, plans.WithPublicBaseURL("https://trips.example.com")),
		Sharing:         sh,
		Itinerary:       itinerary.NewService(sh, itemRepo, tx, clk),
		Recommendations: recommendations.NewService(sh, gen, memrespcache.New(clk, time.Hour), time.Second),
		Statistics:      statistics.NewService(planRepo, itemRepo, userRepo, clk),
	}
	return NewServer(svc, memidempotency.NewStore(clk, 24*time.Hour)), gen
}

// newDevRouter serves the API with X-Debug-Subject authentication.
func newDevRouter(t *testing.T) (http.Handler, *stubGenerator) {
	t.Helper()
	s, gen := newTestServer(t)
	return NewRouter(s, RouterOptions{AuthMiddleware: NewDevAuthMiddleware("")}), gen
}

type apiClient struct {
	t *testing.T
	h http.Handler
}

func (c apiClient) do(subject, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

// provision creates the caller's user profile and returns its id.
func (c apiClient) provision(subject, name, email string) string {
	c.t.Helper()
	rec := c.do(subject, http.MethodPost, "/me", map[string]any{"displayName": name, "email": email})
	if rec.Code != http.StatusCreated {
		c.t.Fatalf("POST /me status=%d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		User userResponse `json:"user"`
	}
	decodeJSON(c.t, rec, &out)
	return out.User.ID
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var er errorResponse
	decodeJSON(t, rec, &er)
	return er.Error.Code
}
