package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/velora-agency/api/internal/api/handler/v1/response"
	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/service"
)

type stubMembershipService struct {
	membership domain.Membership
	err        error
}

func (s *stubMembershipService) Enroll(context.Context, uint) (domain.Membership, error) {
	return s.membership, s.err
}

func (s *stubMembershipService) GetMembership(context.Context, uint) (domain.Membership, error) {
	return s.membership, s.err
}

func (s *stubMembershipService) Deactivate(context.Context, uint) error {
	return s.err
}

type stubPointsService struct {
	adjustment     domain.AdjustmentResult
	reconciliation domain.ReconciliationResult
	entries        []domain.LedgerEntry
	err            error
}

func (s *stubPointsService) AdjustPointsManually(context.Context, uint, int64, string) (domain.AdjustmentResult, error) {
	return s.adjustment, s.err
}

func (s *stubPointsService) Reconcile(context.Context, uint) (domain.ReconciliationResult, error) {
	return s.reconciliation, s.err
}

func (s *stubPointsService) GetLedger(context.Context, uint, int, int) ([]domain.LedgerEntry, error) {
	return s.entries, s.err
}

type stubCardSyncer struct {
	synced   bool
	gotTier  string
	syncErr  error
	gotCalls int
}

func (s *stubCardSyncer) SyncTier(_ context.Context, _ uint, tier string) error {
	s.synced = true
	s.gotTier = tier
	s.gotCalls++
	return s.syncErr
}

func setupMembershipRouter(svc MembershipService, points PointsService, cards CardSyncer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewMembershipHandler(svc, points, cards)
	r.POST("/memberships", h.HandleEnroll)
	r.GET("/memberships/:userID", h.HandleGetMembership)
	r.DELETE("/memberships/:userID", h.HandleDeactivate)
	r.GET("/memberships/:userID/ledger", h.HandleGetLedger)
	r.POST("/memberships/:userID/adjustments", h.HandleAdjustPoints)
	r.POST("/memberships/:userID/reconcile", h.HandleReconcile)

	return r
}

func httpDo(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleGetMembership(t *testing.T) {
	t.Run("returns the membership", func(t *testing.T) {
		svc := &stubMembershipService{membership: domain.Membership{
			UserID: 7, PointsBalance: 120, LifetimePoints: 2100, Tier: "Silver", Status: domain.MembershipActive,
		}}
		r := setupMembershipRouter(svc, &stubPointsService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodGet, "/memberships/7", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Membership
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Equal(t, "Silver", got.Tier)
		require.Equal(t, int64(120), got.PointsBalance)
	})

	t.Run("unknown membership is a 404", func(t *testing.T) {
		svc := &stubMembershipService{err: service.ErrMembershipNotFound}
		r := setupMembershipRouter(svc, &stubPointsService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodGet, "/memberships/7", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("a non-numeric user ID is a 400", func(t *testing.T) {
		r := setupMembershipRouter(&stubMembershipService{}, &stubPointsService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodGet, "/memberships/abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleAdjustPoints(t *testing.T) {
	t.Run("applies the adjustment and syncs cards on a tier change", func(t *testing.T) {
		points := &stubPointsService{adjustment: domain.AdjustmentResult{
			NewBalance: 2100, NewTier: "Silver", TierChanged: true,
		}}
		cards := &stubCardSyncer{}
		r := setupMembershipRouter(&stubMembershipService{}, points, cards)

		w := httpDo(r, http.MethodPost, "/memberships/7/adjustments", gin.H{
			"delta_points": 500, "reason": "campaign bonus",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var got response.AdjustmentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.True(t, got.Success)
		require.True(t, got.TierChanged)
		require.Equal(t, "Silver", got.NewTier)

		require.True(t, cards.synced)
		require.Equal(t, "Silver", cards.gotTier)
	})

	t.Run("no card sync when the tier did not change", func(t *testing.T) {
		points := &stubPointsService{adjustment: domain.AdjustmentResult{NewBalance: 30, NewTier: "Bronze"}}
		cards := &stubCardSyncer{}
		r := setupMembershipRouter(&stubMembershipService{}, points, cards)

		w := httpDo(r, http.MethodPost, "/memberships/7/adjustments", gin.H{
			"delta_points": -20, "reason": "correction",
		})
		require.Equal(t, http.StatusOK, w.Code)
		require.False(t, cards.synced)
	})

	t.Run("a zero delta is rejected by validation", func(t *testing.T) {
		r := setupMembershipRouter(&stubMembershipService{}, &stubPointsService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/memberships/7/adjustments", gin.H{
			"delta_points": 0, "reason": "noop",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("a partial failure maps to the divergence error", func(t *testing.T) {
		points := &stubPointsService{err: &service.PartialFailureError{LedgerEntryID: 42, UserID: 7}}
		r := setupMembershipRouter(&stubMembershipService{}, points, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/memberships/7/adjustments", gin.H{
			"delta_points": 10, "reason": "bonus",
		})
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "points ledger divergence, reconciliation required", body["error"])
	})
}

func TestHandleReconcile(t *testing.T) {
	t.Run("syncs cards when the repair changed the row", func(t *testing.T) {
		points := &stubPointsService{reconciliation: domain.ReconciliationResult{
			UserID: 7, PointsBalance: 2500, LifetimePoints: 3000, Tier: "Silver", Repaired: true,
		}}
		cards := &stubCardSyncer{}
		r := setupMembershipRouter(&stubMembershipService{}, points, cards)

		w := httpDo(r, http.MethodPost, "/memberships/7/reconcile", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.ReconciliationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.True(t, got.Repaired)
		require.True(t, cards.synced)
	})

	t.Run("unknown membership is a 404", func(t *testing.T) {
		points := &stubPointsService{err: service.ErrMembershipNotFound}
		r := setupMembershipRouter(&stubMembershipService{}, points, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/memberships/7/reconcile", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleGetLedger(t *testing.T) {
	points := &stubPointsService{entries: []domain.LedgerEntry{
		{ID: 1, UserID: 7, DeltaPoints: 5, Source: domain.SourceConsumption},
		{ID: 2, UserID: 7, DeltaPoints: -2, Source: domain.SourceManualAdjustment},
	}}
	r := setupMembershipRouter(&stubMembershipService{}, points, &stubCardSyncer{})

	w := httpDo(r, http.MethodGet, "/memberships/7/ledger?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got response.LedgerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Entries, 2)
	require.Equal(t, 10, got.Limit)
}

func TestHandleEnroll(t *testing.T) {
	t.Run("enrolls a user", func(t *testing.T) {
		svc := &stubMembershipService{membership: domain.Membership{
			UserID: 7, Tier: "Bronze", Status: domain.MembershipActive,
		}}
		r := setupMembershipRouter(svc, &stubPointsService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/memberships", gin.H{"user_id": 7})
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("an existing membership conflicts", func(t *testing.T) {
		svc := &stubMembershipService{err: service.ErrMembershipExists}
		r := setupMembershipRouter(svc, &stubPointsService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/memberships", gin.H{"user_id": 7})
		require.Equal(t, http.StatusConflict, w.Code)
	})
}
