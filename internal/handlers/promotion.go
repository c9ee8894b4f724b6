package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"promotions/internal/domain"
	"promotions/internal/dto"
	"promotions/internal/repo"
	"promotions/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

type PromotionHandler struct {
	svc      *service.PromotionService
	testMode bool
}

func NewPromotionHandler(svc *service.PromotionService, testMode bool) *PromotionHandler {
	return &PromotionHandler{svc: svc, testMode: testMode}
}

// List godoc
// @Summary      List promotions, optionally filtered by query parameters
// @Tags         promotions
// @Produce      json
// @Param        title       query  string  false  "Exact title"
// @Param        promo_code  query  int     false  "Promo code"
// @Param        promo_type  query  string  false  "AMOUNT_DISCOUNT | PERCENTAGE_DISCOUNT | BUY_ONE_GET_ONE"
// @Param        active      query  bool    false  "Active flag"
// @Success      200  {array}   dto.PromotionResponse
// @Failure      400  {object}  map[string]string
// @Router       /promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	params := map[string]string{}
	for name, vals := range c.Request.URL.Query() {
		if len(vals) > 0 && vals[0] != "" {
			params[name] = vals[0]
		}
	}

	list, err := h.svc.Query(c.Request.Context(), params)
	if err != nil {
		if isFilterError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	log.Debug().Int("count", len(list)).Msg("returning promotions")
	c.JSON(http.StatusOK, dto.FromDomainList(list))
}

// Get godoc
// @Summary      Retrieve a single promotion
// @Tags         promotions
// @Produce      json
// @Param        id   path      int  true  "Promotion ID"
// @Success      200  {object}  dto.PromotionResponse
// @Failure      404  {object}  map[string]string
// @Router       /promotions/{id} [get]
func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": notFoundMessage(id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromDomain(p))
}

// Create godoc
// @Summary      Create a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body      dto.PromotionRequest  true  "Promotion body"
// @Success      201   {object}  dto.PromotionResponse
// @Failure      400   {object}  map[string]string
// @Failure      415   {object}  map[string]string
// @Router       /promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	if !h.requireJSON(c) {
		return
	}
	var req dto.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req.ToPromotion())
	if err != nil {
		h.writeStoreError(c, err)
		return
	}
	log.Info().Str("promotion", created.Label()).Msg("promotion created")

	c.Header("Location", fmt.Sprintf("/promotions/%d", created.ID))
	c.JSON(http.StatusCreated, dto.FromDomain(created))
}

// Update godoc
// @Summary      Replace an existing promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      int                   true  "Promotion ID"
// @Param        body  body      dto.PromotionRequest  true  "Full promotion body"
// @Success      200   {object}  dto.PromotionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      415   {object}  map[string]string
// @Router       /promotions/{id} [put]
func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if !h.requireJSON(c) {
		return
	}
	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": notFoundMessage(id)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	var req dto.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindMessage(err)})
		return
	}
	p := req.ToPromotion()
	p.ID = id

	updated, err := h.svc.Update(c.Request.Context(), p)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": notFoundMessage(id)})
			return
		}
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromDomain(updated))
}

// Delete godoc
// @Summary      Delete a promotion (idempotent)
// @Tags         promotions
// @Security     ApiKeyAuth
// @Param        id  path  int  true  "Promotion ID"
// @Success      204
// @Router       /promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate godoc
// @Summary      Set only the active flag of a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      int   true  "Promotion ID"
// @Param        body  body      map[string]bool  true  "Target active state, e.g. {\"active\": false}"
// @Success      200   {object}  dto.PromotionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /promotions/{id}/activate [put]
func (h *PromotionHandler) Activate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if !h.requireJSON(c) {
		return
	}
	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "body must contain an active flag"})
		return
	}

	updated, err := h.svc.SetActive(c.Request.Context(), id, *body.Active)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": notFoundMessage(id)})
			return
		}
		h.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromDomain(updated))
}

// RemoveAll godoc
// @Summary      Delete every promotion (test fixtures only)
// @Tags         promotions
// @Security     ApiKeyAuth
// @Success      204
// @Failure      405  {object}  map[string]string
// @Router       /promotions [delete]
func (h *PromotionHandler) RemoveAll(c *gin.Context) {
	if !h.testMode {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "bulk delete is only available in test mode"})
		return
	}
	if _, err := h.svc.RemoveAll(c.Request.Context()); err != nil {
		h.writeStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID reads the :id path parameter. A non-numeric id cannot name any
// record, so it reports not-found just like a missing one.
func (h *PromotionHandler) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Promotion with id '%s' was not found.", raw)})
		return 0, false
	}
	return id, true
}

// requireJSON enforces the exact media type on writes.
func (h *PromotionHandler) requireJSON(c *gin.Context) bool {
	if ct := c.GetHeader("Content-Type"); ct != contentTypeJSON {
		log.Error().Str("content_type", ct).Msg("invalid content type")
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"message": "Content-Type must be " + contentTypeJSON})
		return false
	}
	return true
}

func (h *PromotionHandler) writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, repo.ErrDataValidation) || errors.Is(err, repo.ErrNoID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
}

// bindMessage keeps the precise message for our own body errors. JSON syntax
// errors surface from the decoder before the body decoder runs, so they are
// folded into the generic malformed-body message.
func bindMessage(err error) string {
	var missing *dto.MissingFieldError
	var invalid *dto.InvalidAttributeError
	if errors.Is(err, dto.ErrMalformedBody) || errors.As(err, &missing) || errors.As(err, &invalid) {
		return err.Error()
	}
	return dto.ErrMalformedBody.Error()
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Promotion with id '%d' was not found.", id)
}

func isFilterError(err error) bool {
	var invalid *domain.InvalidAttributeError
	return errors.As(err, &invalid) || errors.Is(err, domain.ErrBadValue)
}
