package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/velora-agency/api/internal/api/handler/v1/response"
	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/service"
)

type stubConsumptionService struct {
	consumption domain.Consumption
	result      domain.ConsumptionResult
	list        []domain.Consumption
	err         error
}

func (s *stubConsumptionService) RecordConsumption(context.Context, uint, int64, string) (domain.Consumption, domain.ConsumptionResult, error) {
	return s.consumption, s.result, s.err
}

func (s *stubConsumptionService) GetConsumptions(context.Context, uint, int, int) ([]domain.Consumption, error) {
	return s.list, s.err
}

func setupConsumptionRouter(svc ConsumptionService, cards CardSyncer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewConsumptionHandler(svc, cards)
	r.POST("/consumptions", h.HandleRecordConsumption)
	r.GET("/memberships/:userID/consumptions", h.HandleGetConsumptions)

	return r
}

func TestHandleRecordConsumption(t *testing.T) {
	t.Run("records the consumption and reports the award", func(t *testing.T) {
		svc := &stubConsumptionService{
			consumption: domain.Consumption{ID: uuid.New(), UserID: 7, Amount: 55, Currency: "EUR"},
			result:      domain.ConsumptionResult{PointsAwarded: 5, NewBalance: 5, NewTier: "Bronze"},
		}
		cards := &stubCardSyncer{}
		r := setupConsumptionRouter(svc, cards)

		w := httpDo(r, http.MethodPost, "/consumptions", gin.H{
			"user_id": 7, "amount": 55, "currency": "EUR",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var got response.ConsumptionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Equal(t, int64(5), got.PointsAwarded)
		require.False(t, cards.synced)
	})

	t.Run("syncs cards on a tier change", func(t *testing.T) {
		svc := &stubConsumptionService{
			consumption: domain.Consumption{ID: uuid.New(), UserID: 7},
			result:      domain.ConsumptionResult{PointsAwarded: 20, NewBalance: 2010, NewTier: "Silver", TierChanged: true},
		}
		cards := &stubCardSyncer{}
		r := setupConsumptionRouter(svc, cards)

		w := httpDo(r, http.MethodPost, "/consumptions", gin.H{
			"user_id": 7, "amount": 200, "currency": "EUR",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.True(t, cards.synced)
		require.Equal(t, "Silver", cards.gotTier)
	})

	t.Run("no configured rule is a 422", func(t *testing.T) {
		svc := &stubConsumptionService{err: service.ErrRuleNotFound}
		r := setupConsumptionRouter(svc, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/consumptions", gin.H{
			"user_id": 7, "amount": 100, "currency": "EUR",
		})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("a malformed body is a 400", func(t *testing.T) {
		r := setupConsumptionRouter(&stubConsumptionService{}, &stubCardSyncer{})

		w := httpDo(r, http.MethodPost, "/consumptions", gin.H{
			"user_id": 7, "amount": 100, "currency": "EURO",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetConsumptions(t *testing.T) {
	svc := &stubConsumptionService{list: []domain.Consumption{
		{ID: uuid.New(), UserID: 7, Amount: 55, Currency: "EUR"},
	}}
	r := setupConsumptionRouter(svc, &stubCardSyncer{})

	w := httpDo(r, http.MethodGet, "/memberships/7/consumptions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.Consumption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
}
