package pass_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"gympass/internal/auth"
	"gympass/internal/clock"
	"gympass/internal/offer"
	"gympass/internal/pass"
)

func newPassRouter(db *sqlx.DB, clk clock.Clock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := pass.NewHandler(newPassService(db, clk))

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware("test-secret"))
	{
		protected.POST("/passes", handler.Purchase)
		protected.GET("/passes", handler.ListMy)
		protected.GET("/passes/latest", handler.Latest)
		protected.POST("/passes/:passID/suspend", handler.Suspend)
		protected.POST("/passes/:passID/checkin", handler.CheckIn)
		protected.GET("/passes/:passID/validity", handler.Validity)
		protected.DELETE("/passes/:passID", handler.Delete)
	}

	return router
}

func authedJSON(router *gin.Engine, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPassHandler_PurchaseFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	userID, token := createTestUser(t, db, "handler@test.com", "Handler User")
	offerID := createTestOffer(t, db, "Monthly Gold", offer.KindTime, 12000, 1, 0)
	topUpWallet(t, db, userID, 20000)

	clk := clock.NewFixed(time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))
	router := newPassRouter(db, clk)

	// Purchase
	w := authedJSON(router, token, "POST", "/passes", pass.PurchaseRequest{
		OfferID:   offerID,
		StartDate: "2025-06-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var p pass.Pass
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, pass.KindTime, p.Kind)

	// Validity
	w = authedJSON(router, token, "GET", fmt.Sprintf("/passes/%d/validity", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var v pass.Validity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	require.True(t, v.Valid)

	// Suspend, then a second suspension is rejected with 409
	w = authedJSON(router, token, "POST", fmt.Sprintf("/passes/%d/suspend", p.ID), pass.SuspendRequest{
		SuspendedUntil: "2025-06-17",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = authedJSON(router, token, "POST", fmt.Sprintf("/passes/%d/suspend", p.ID), pass.SuspendRequest{
		SuspendedUntil: "2025-06-18",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// List shows the pass with its computed validity
	w = authedJSON(router, token, "GET", "/passes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []pass.PassWithValidity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.False(t, listed[0].Validity.Valid)

	// Delete returns the snapshot, after which the pass is gone
	w = authedJSON(router, token, "DELETE", fmt.Sprintf("/passes/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = authedJSON(router, token, "GET", fmt.Sprintf("/passes/%d/validity", p.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPassHandler_InsufficientFunds_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	_, token := createTestUser(t, db, "broke@test.com", "Broke User")
	offerID := createTestOffer(t, db, "Monthly Gold", offer.KindTime, 12000, 1, 0)

	clk := clock.NewFixed(time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC))
	router := newPassRouter(db, clk)

	w := authedJSON(router, token, "POST", "/passes", pass.PurchaseRequest{
		OfferID:   offerID,
		StartDate: "2025-06-15",
	})
	require.Equal(t, http.StatusPaymentRequired, w.Code)
}
