package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/taskboard-backend/internal/action"
	"github.com/heartmarshall/taskboard-backend/internal/adapter/memory"
	"github.com/heartmarshall/taskboard-backend/internal/auth"
	"github.com/heartmarshall/taskboard-backend/internal/domain"
	"github.com/heartmarshall/taskboard-backend/internal/service/auditlog"
	"github.com/heartmarshall/taskboard-backend/internal/service/board"
	"github.com/heartmarshall/taskboard-backend/internal/service/quota"
	"github.com/heartmarshall/taskboard-backend/internal/transport/dataloader"
	"github.com/heartmarshall/taskboard-backend/pkg/ctxutil"
)

const (
	testOrg   = "org_1"
	testImage = "img_1|https://images.example.com/thumb|https://images.example.com/full|<a>x</a>|Jane Doe"
)

type testServer struct {
	handler http.Handler
	boards  *memory.BoardStore
	logs    *memory.AuditLogStore
}

// newTestServer mounts every route over memory stores. Requests carry the
// identity set by withIdentity instead of a bearer token.
func newTestServer(t *testing.T, maxBoards int) *testServer {
	t.Helper()

	log := slog.Default()
	boards := memory.NewBoardStore()
	logs := memory.NewAuditLogStore()
	quotaSvc := quota.NewService(log, memory.NewOrgLimitStore(), maxBoards)
	auditSvc := auditlog.NewService(log, logs)
	resolver := auth.NewResolver()
	boardSvc := board.NewService(log, boards, quotaSvc, auditSvc, resolver, memory.NewTxManager())

	registry := action.NewRegistry()
	registry.Register(boardSvc.Actions()...)

	mux := http.NewServeMux()
	Handlers{
		Health:  NewHealthHandler(nil, "test"),
		Actions: NewActionHandler(registry, log),
		Boards:  NewBoardHandler(boardSvc, auditSvc, quotaSvc, resolver, log),
	}.Register(mux)

	handler := dataloader.Middleware(&dataloader.Repos{Lists: boards, Cards: boards})(mux)
	return &testServer{handler: handler, boards: boards, logs: logs}
}

func withIdentity(r *http.Request, orgID string) *http.Request {
	if orgID == "" {
		return r
	}
	ctx := ctxutil.WithIdentity(r.Context(), domain.Identity{
		UserID:    "user_1",
		OrgID:     orgID,
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	return r.WithContext(ctx)
}

func (s *testServer) do(t *testing.T, method, path, orgID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := withIdentity(httptest.NewRequest(method, path, rdr), orgID)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) action(t *testing.T, name string, body any) map[string]json.RawMessage {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/actions/"+name, testOrg, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeObject(t, rec)
}

func (s *testServer) auditLogs(t *testing.T) []domain.AuditLog {
	t.Helper()
	logs, err := s.logs.ListByOrg(context.Background(), testOrg, 0)
	require.NoError(t, err)
	return logs
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), rec.Body.String())
	return out
}

func decodeInto(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func bigBody(n int) string {
	return `{"title":"` + strings.Repeat("a", n) + `"}`
}
