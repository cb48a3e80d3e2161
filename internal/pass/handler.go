package pass

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gympass/internal/api"
	"gympass/internal/auth"
	"gympass/internal/logger"
	"gympass/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

func passIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("passID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid pass ID"})
		return 0, false
	}
	return id, true
}

// dateQuery reads an optional YYYY-MM-DD query parameter.
func dateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: name + " must be YYYY-MM-DD"})
		return nil, false
	}
	t = dateOnly(t)
	return &t, true
}

// @Summary      Purchase a gym pass
// @Description  Buys an offer for the authenticated user, charging their wallet.
// @Tags         passes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseRequest true "Purchase payload"
// @Success      201 {object} Pass
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Purchase(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrOfferNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Offer not found"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrPastStartDate):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient wallet balance"})
		default:
			logger.Errorf("Failed to purchase pass for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to purchase pass"})
		}
		return
	}

	metrics.RecordPassPurchase(string(p.Kind))
	c.JSON(http.StatusCreated, p)
}

// @Summary      Suspend a pass
// @Description  Freezes the pass until the given date; time passes get their end date extended by the frozen days.
// @Tags         passes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        passID  path int true "Pass ID"
// @Param        request body SuspendRequest true "Suspension payload"
// @Success      200 {object} Pass
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes/{passID}/suspend [post]
func (h *Handler) Suspend(c *gin.Context) {
	passID, ok := passIDParam(c)
	if !ok {
		return
	}

	var req SuspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Suspend(c.Request.Context(), passID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPassNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Pass not found"})
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrRetroSuspension), errors.Is(err, ErrSuspensionAfterEnd):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrAlreadySuspended), errors.Is(err, ErrVersionConflict):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Errorf("Failed to suspend pass %d: %v", passID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to suspend pass"})
		}
		return
	}

	metrics.RecordPassSuspension()
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete a pass
// @Description  Removes the pass and returns the pre-deletion snapshot.
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Param        passID path int true "Pass ID"
// @Success      200 {object} Pass
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes/{passID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	passID, ok := passIDParam(c)
	if !ok {
		return
	}

	p, err := h.service.Delete(c.Request.Context(), passID)
	if err != nil {
		if errors.Is(err, ErrPassNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Pass not found"})
			return
		}
		logger.Errorf("Failed to delete pass %d: %v", passID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete pass"})
		return
	}

	metrics.RecordPassDeletion()
	c.JSON(http.StatusOK, p)
}

// @Summary      Pass validity
// @Description  Recomputes whether the pass currently grants entry.
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Param        passID path int true "Pass ID"
// @Success      200 {object} Validity
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes/{passID}/validity [get]
func (h *Handler) Validity(c *gin.Context) {
	passID, ok := passIDParam(c)
	if !ok {
		return
	}

	v, err := h.service.Validity(c.Request.Context(), passID)
	if err != nil {
		if errors.Is(err, ErrPassNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Pass not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to compute validity"})
		return
	}

	c.JSON(http.StatusOK, v)
}

// @Summary      Check in with a pass
// @Description  Validates the pass at the door and consumes one entry on entry passes.
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Param        passID path int true "Pass ID"
// @Success      200 {object} Validity
// @Failure      403 {object} Validity
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes/{passID}/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	passID, ok := passIDParam(c)
	if !ok {
		return
	}

	v, err := h.service.CheckIn(c.Request.Context(), passID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPassNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Pass not found"})
		case errors.Is(err, ErrPassNotValid):
			metrics.RecordPassCheckIn("denied")
			c.JSON(http.StatusForbidden, v)
		case errors.Is(err, ErrVersionConflict):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			logger.Errorf("Failed to check in pass %d: %v", passID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to check in"})
		}
		return
	}

	metrics.RecordPassCheckIn("granted")
	c.JSON(http.StatusOK, v)
}

// @Summary      List my passes
// @Description  Lists the authenticated user's passes whose window intersects the optional date range.
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "Range start (YYYY-MM-DD)"
// @Param        to   query string false "Range end (YYYY-MM-DD)"
// @Success      200 {array} PassWithValidity
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}

	passes, err := h.service.ListForUser(c.Request.Context(), userID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, ErrStartAfterEnd):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrNoPassesFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No passes found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list passes"})
		}
		return
	}

	c.JSON(http.StatusOK, passes)
}

// @Summary      My latest pass
// @Description  Returns the user's most relevant pass still ending in the future.
// @Tags         passes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} PassWithValidity
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /passes/latest [get]
func (h *Handler) Latest(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	p, err := h.service.LatestForUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case errors.Is(err, ErrNoPassesFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No passes found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load latest pass"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      List all passes
// @Description  Admin-only: pages over all purchases filtered by purchase instant.
// @Tags         admin,passes
// @Produce      json
// @Security     BearerAuth
// @Param        from     query string false "Purchase window start (YYYY-MM-DD)"
// @Param        to       query string false "Purchase window end (YYYY-MM-DD)"
// @Param        page     query int    false "Page number"
// @Param        per_page query int    false "Page size"
// @Success      200 {object} Page
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/passes [get]
func (h *Handler) ListAll(c *gin.Context) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	result, err := h.service.ListAll(c.Request.Context(), from, to, page, perPage)
	if err != nil {
		if errors.Is(err, ErrStartAfterEnd) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to list passes"})
		return
	}

	c.JSON(http.StatusOK, result)
}
