package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sr2706/parakram-backend/internal/allocator"
	"github.com/sr2706/parakram-backend/internal/auth"
	"github.com/sr2706/parakram-backend/internal/document"
	"github.com/sr2706/parakram-backend/internal/repository/memory"
	"github.com/sr2706/parakram-backend/internal/service"
	"github.com/sr2706/parakram-backend/internal/storage"
	"go.uber.org/zap"
)

type sportLimits map[string]int

func (s sportLimits) Limit(sport string) int {
	if n, ok := s[sport]; ok {
		return n
	}
	return 20
}

type testServer struct {
	e      *echo.Echo
	issuer *auth.Issuer
	files  *storage.MemoryUploader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC))
	store := memory.NewStore(clock)
	files := storage.NewMemoryUploader("https://files.local")
	ids := allocator.New(store.Counters(), allocator.Options{})

	issuer, err := auth.NewIssuer("test-secret", clock)
	require.NoError(t, err)

	teams := service.NewTeamService(store).
		WithAllocator(ids).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithPaymentRepo(store.Payments()).
		WithSportLimits(sportLimits{"Basketball": 5}).
		WithClock(clock)
	payments := service.NewPaymentService(store).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithPaymentRepo(store.Payments()).
		WithFileUploader(files).
		WithClock(clock)
	players := service.NewPlayerService().
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations())
	accommodations := service.NewAccommodationService(store).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithClock(clock)
	documents := service.NewDocumentService(document.NewPDFRenderer(), files).
		WithTeamRepo(store.Teams()).
		WithPlayerRepo(store.Players()).
		WithAccommodationRepo(store.Accommodations()).
		WithPaymentRepo(store.Payments())

	checker, err := NewHealthChecker("test", PingCheck("storage", store, false))
	require.NoError(t, err)

	e := echo.New()
	NewHandler(zap.NewNop()).
		WithIssuer(issuer).
		WithHealthChecker(checker).
		WithTeamService(teams).
		WithPaymentService(payments).
		WithStatsService(service.NewStatsService(store.Stats())).
		WithPlayerService(players).
		WithAccommodationService(accommodations).
		WithDocumentService(documents).
		RegisterRoutes(e)

	return &testServer{e: e, issuer: issuer, files: files}
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Message string          `json:"message"`
	Error   *service.Error  `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (int, response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.serve(t, req, token)
}

func (s *testServer) serve(t *testing.T, req *http.Request, token string) (int, response) {
	t.Helper()

	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.issuer.GenerateToken(auth.TokenTypeAdmin, time.Hour)
	require.NoError(t, err)
	return token
}

func teamBody(sport string, n int) map[string]any {
	players := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, map[string]any{
			"name":               fmt.Sprintf("Player %d", i+1),
			"phone_number":       fmt.Sprintf("98765%05d", i),
			"college_name":       "IIT Kanpur",
			"sport_name":         sport,
			"accommodation_type": "dormitory",
		})
	}
	return map[string]any{"sport_name": sport, "players": players}
}

func (s *testServer) registerTeam(t *testing.T, sport string, n int) string {
	t.Helper()

	code, resp := s.do(t, http.MethodPost, "/api/teams/register", teamBody(sport, n), "")
	require.Equal(t, http.StatusCreated, code)

	var team struct {
		ID string `json:"team_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &team))
	return team.ID
}

func TestRegisterTeam(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/api/teams/register", teamBody("Football", 2), "")
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	var team struct {
		ID        string   `json:"team_id"`
		Status    string   `json:"status"`
		PlayerIDs []string `json:"player_ids"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &team))
	assert.Equal(t, "TM0001", team.ID)
	assert.Equal(t, "registered", team.Status)
	assert.Equal(t, []string{"PL0001", "PL0002"}, team.PlayerIDs)
}

func TestRegisterTeam_Errors(t *testing.T) {
	tests := []struct {
		name string
		body any
		code service.ErrorCode
	}{
		{
			name: "no players",
			body: map[string]any{"sport_name": "Football", "players": []any{}},
			code: service.ErrorCodeInvalidInput,
		},
		{
			name: "over sport limit",
			body: teamBody("Basketball", 6),
			code: service.ErrorCodeInvalidInput,
		},
		{
			name: "malformed body",
			body: "not an object",
			code: service.ErrorCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			code, resp := s.do(t, http.MethodPost, "/api/teams/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestGetTeam(t *testing.T) {
	s := newTestServer(t)
	id := s.registerTeam(t, "Cricket", 3)

	code, resp := s.do(t, http.MethodGet, "/api/teams/"+id, nil, "")
	require.Equal(t, http.StatusOK, code)

	var team struct {
		Players []struct {
			ID            string `json:"player_id"`
			Accommodation *struct {
				Type string `json:"type"`
			} `json:"accommodation"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &team))
	require.Len(t, team.Players, 3)
	require.NotNil(t, team.Players[0].Accommodation)
	assert.Equal(t, "dormitory", team.Players[0].Accommodation.Type)

	code, resp = s.do(t, http.MethodGet, "/api/teams/TM9999", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, service.ErrorCodeNotFound, resp.Error.Code)
}

func TestAdminRoutes_RequireAdminToken(t *testing.T) {
	s := newTestServer(t)

	userToken, err := s.issuer.GenerateToken(auth.TokenTypeUser, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "missing token", token: "", want: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "user token", token: userToken, want: http.StatusUnauthorized},
		{name: "admin token", token: s.adminToken(t), want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := s.do(t, http.MethodGet, "/api/admin/teams", nil, tt.token)
			assert.Equal(t, tt.want, code)
			if tt.want == http.StatusUnauthorized {
				require.NotNil(t, resp.Error)
				assert.Equal(t, service.ErrorCodeUnauthorized, resp.Error.Code)
			}
		})
	}
}

func TestPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	id := s.registerTeam(t, "Football", 2)

	body := map[string]any{
		"team_id":            id,
		"transaction_id":     "UPI-1",
		"amount_paid":        1500,
		"payment_screenshot": map[string]any{"url": "https://files.local/shot.png"},
	}
	code, resp := s.do(t, http.MethodPost, "/api/payments", body, "")
	require.Equal(t, http.StatusCreated, code)

	var payment struct {
		ID     string `json:"payment_id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payment))
	assert.Equal(t, "pending", payment.Status)

	body["transaction_id"] = "UPI-2"
	code, resp = s.do(t, http.MethodPost, "/api/payments", body, "")
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, service.ErrorCodeDuplicatePayment, resp.Error.Code)

	code, resp = s.do(t, http.MethodGet, "/api/admin/payments", nil, admin)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)

	path := "/api/admin/payments/" + payment.ID + "/status"
	code, _ = s.do(t, http.MethodPatch, path, map[string]any{"status": "completed"}, admin)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodPatch, path, map[string]any{"status": "pending"}, admin)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, service.ErrorCodeInvalidTransition, resp.Error.Code)

	code, resp = s.do(t, http.MethodGet, "/api/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, code)

	var dash struct {
		TotalAmountCollected float64 `json:"total_amount_collected"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &dash))
	assert.Equal(t, 1500.0, dash.TotalAmountCollected)
}

func paymentForm(t *testing.T, teamID, txnID, amount string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("team_id", teamID))
	require.NoError(t, w.WriteField("transaction_id", txnID))
	require.NoError(t, w.WriteField("amount_paid", amount))

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="payment_screenshot"; filename="shot.png"`}
	header["Content-Type"] = []string{"image/png"}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/payments", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestSubmitPayment_Multipart(t *testing.T) {
	s := newTestServer(t)
	id := s.registerTeam(t, "Football", 1)

	code, resp := s.serve(t, paymentForm(t, id, "UPI-9", "750"), "")
	require.Equal(t, http.StatusCreated, code)

	var payment struct {
		Screenshot struct {
			URL string `json:"url"`
			Key string `json:"key"`
		} `json:"payment_screenshot"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &payment))
	assert.True(t, strings.HasPrefix(payment.Screenshot.Key, "screenshots/"+id+"/"))

	obj, ok := s.files.Get(payment.Screenshot.Key)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), obj.Data)
}

func TestSubmitPayment_NonFiniteAmount(t *testing.T) {
	for _, amount := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		t.Run(amount, func(t *testing.T) {
			s := newTestServer(t)
			admin := s.adminToken(t)
			id := s.registerTeam(t, "Football", 1)

			code, resp := s.serve(t, paymentForm(t, id, "UPI-9", amount), "")
			assert.Equal(t, http.StatusBadRequest, code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, service.ErrorCodeInvalidInput, resp.Error.Code)

			code, resp = s.do(t, http.MethodGet, "/api/admin/statistics", nil, admin)
			require.Equal(t, http.StatusOK, code)
			var stats struct {
				PaymentsCount int `json:"payments_count"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &stats))
			assert.Zero(t, stats.PaymentsCount)

			code, _ = s.do(t, http.MethodGet, "/api/admin/dashboard", nil, admin)
			assert.Equal(t, http.StatusOK, code)

			code, _ = s.serve(t, paymentForm(t, id, "UPI-10", "750"), "")
			assert.Equal(t, http.StatusCreated, code)
		})
	}
}

func TestAccommodationRoutes(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodGet, "/api/accommodation/types", nil, "")
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 3, *resp.Count)

	code, resp = s.do(t, http.MethodPost, "/api/accommodation/select", map[string]any{"player_id": "PL0001", "type": "penthouse"}, "")
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, resp.Error)

	id := s.registerTeam(t, "Football", 2)
	code, resp = s.do(t, http.MethodGet, "/api/accommodation/team/"+id+"/cost", nil, "")
	require.Equal(t, http.StatusOK, code)

	var cost struct {
		Players int `json:"players_with_accommodation"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &cost))
	assert.Equal(t, 2, cost.Players)
}

func TestUnknownRoute_UsesEnvelope(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodGet, "/api/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, service.ErrorCodeNotFound, resp.Error.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
