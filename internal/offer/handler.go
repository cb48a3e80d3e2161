package offer

import (
	"errors"
	"net/http"

	"gympass/internal/api"
	"gympass/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

var errKindFields = errors.New("kind does not match period/entries fields")

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{
		repo: repo,
	}
}

// checkKindFields rejects offers whose entitlement fields contradict the kind.
func checkKindFields(req CreateOfferRequest) error {
	switch Kind(req.Kind) {
	case KindTime:
		if req.PeriodMonths <= 0 || req.Entries != 0 {
			return errKindFields
		}
	case KindEntries:
		if req.Entries <= 0 || req.PeriodMonths != 0 {
			return errKindFields
		}
	}
	return nil
}

// @Summary      Create an offer
// @Description  Admin-only: add a gym pass offer to the catalog
// @Tags         admin,offers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateOfferRequest true "Offer payload"
// @Success      201 {object} Offer
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/offers [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := checkKindFields(req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	o := &Offer{
		Title:        req.Title,
		Kind:         Kind(req.Kind),
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		PeriodMonths: req.PeriodMonths,
		Entries:      req.Entries,
		Premium:      req.Premium,
		Synopsis:     req.Synopsis,
		Features:     pq.StringArray(req.Features),
	}

	created, err := h.repo.Create(c.Request.Context(), o)
	if err != nil {
		logger.Errorf("Failed to create offer %q: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create offer"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary      List offers
// @Tags         offers,admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Offer
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /offers [get]
// @Router       /admin/offers [get]
func (h *Handler) List(c *gin.Context) {
	offers, err := h.repo.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch offers"})
		return
	}

	c.JSON(http.StatusOK, offers)
}
