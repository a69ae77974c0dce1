package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"giftyy-backend/internal/cart"
	"giftyy-backend/internal/checkout"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"
	"giftyy-backend/internal/pricing"
	"giftyy-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMemoryUploadSize = 100 << 20 // 100 MB

type ShippingRuleSource interface {
	GetShippingRules(ctx context.Context, vendorIDs []string) (map[string]models.ShippingRule, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.OrderResponse, error)
	GetOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error)
}

// MediaStore keeps uploaded memory media
type MediaStore interface {
	URLResolver
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type CheckoutOptions struct {
	TaxRate   float64
	CardPrice float64
}

// CheckoutHandler drives the checkout wizard of a buyer session and turns a
// confirmed checkout into an order
type CheckoutHandler struct {
	carts     *cart.Registry
	checkouts *checkout.Registry
	rules     ShippingRuleSource
	orders    OrderStore
	qr        QRGenerator
	media     MediaStore
	opts      CheckoutOptions
	logger    *zap.Logger
}

func NewCheckoutHandler(carts *cart.Registry, checkouts *checkout.Registry, rules ShippingRuleSource,
	orders OrderStore, qr QRGenerator, media MediaStore, opts CheckoutOptions, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		carts:     carts,
		checkouts: checkouts,
		rules:     rules,
		orders:    orders,
		qr:        qr,
		media:     media,
		opts:      opts,
		logger:    logger,
	}
}

func (h *CheckoutHandler) session(c *gin.Context) (string, *checkout.Store, bool) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return "", nil, false
	}
	return sessionID, h.checkouts.Get(sessionID), true
}

// view is the client-facing form of a session: payment masked, media
// references resolved to loadable URLs
func (h *CheckoutHandler) view(ctx context.Context, s checkout.Session) checkout.Session {
	s.Payment = s.Payment.Masked()
	s.Memory.VideoURL = h.media.ResolveURL(ctx, s.Memory.VideoURL)
	s.Memory.PhotoURL = h.media.ResolveURL(ctx, s.Memory.PhotoURL)
	return s
}

func (h *CheckoutHandler) respond(c *gin.Context, store *checkout.Store) {
	c.JSON(http.StatusOK, h.view(c.Request.Context(), store.Snapshot()))
}

func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, checkout.ErrStageLocked), errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrSubmitting):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrInvalidMemory), errors.Is(err, checkout.ErrInvalidCard):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("checkout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}

func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	h.respond(c, store)
}

func (h *CheckoutHandler) SelectCard(c *gin.Context) {
	var req models.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, store, ok := h.session(c)
	if !ok {
		return
	}

	price := h.opts.CardPrice
	if req.CardPrice != nil {
		price = *req.CardPrice
	}
	if err := store.SelectCard(req.CardType, price); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, store)
}

func (h *CheckoutHandler) SetRecipient(c *gin.Context) {
	var req checkout.Recipient
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, store, ok := h.session(c)
	if !ok {
		return
	}

	if err := store.SetRecipient(req); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, store)
}

func (h *CheckoutHandler) AttachMemory(c *gin.Context) {
	var req models.MemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, store, ok := h.session(c)
	if !ok {
		return
	}

	var err error
	switch checkout.MemoryType(req.MemoryType) {
	case checkout.MemoryVideo:
		err = store.AttachVideo(req.VideoURL, req.VideoTitle)
	case checkout.MemoryPhoto:
		err = store.AttachPhoto(req.PhotoURL, req.Message)
	case checkout.MemoryText:
		err = store.AttachText(req.Message)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, store)
}

// UploadMemory stores a video or photo in object storage and attaches it
func (h *CheckoutHandler) UploadMemory(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	if store.Stage() != checkout.StageMemory {
		h.respondError(c, checkout.ErrStageLocked)
		return
	}

	memoryType := checkout.MemoryType(c.PostForm("memory_type"))
	if memoryType != checkout.MemoryVideo && memoryType != checkout.MemoryPhoto {
		c.JSON(http.StatusBadRequest, gin.H{"error": "memory_type must be video or photo"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > maxMemoryUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	wantPrefix := string(memoryType) + "/"
	if memoryType == checkout.MemoryPhoto {
		wantPrefix = "image/"
	}
	if !strings.HasPrefix(contentType, wantPrefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer f.Close()

	key, err := h.media.Upload(c.Request.Context(), storage.NewKey("memories", file.Filename), f, file.Size, contentType)
	if err != nil {
		h.logger.Error("memory upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload memory"})
		return
	}

	if memoryType == checkout.MemoryVideo {
		err = store.AttachVideo(key, c.PostForm("title"))
	} else {
		err = store.AttachPhoto(key, c.PostForm("message"))
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, store)
}

func (h *CheckoutHandler) ClearMemory(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	if err := store.ClearMemory(); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, store)
}

func (h *CheckoutHandler) SetPayment(c *gin.Context) {
	var req checkout.Payment
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, store, ok := h.session(c)
	if !ok {
		return
	}

	if err := store.SetPayment(req); err != nil {
		h.respondError(c, err)
		return
	}
	h.respond(c, store)
}

func (h *CheckoutHandler) Advance(c *gin.Context) {
	sessionID, store, ok := h.session(c)
	if !ok {
		return
	}
	if store.Stage() == checkout.StageCartReview && h.carts.Get(sessionID).IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	stage, err := store.Advance()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StageResponse{Stage: stage.String()})
}

func (h *CheckoutHandler) Back(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	stage, err := store.Back()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StageResponse{Stage: stage.String()})
}

func (h *CheckoutHandler) Reset(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	store.Reset()
	h.respond(c, store)
}

func (h *CheckoutHandler) quote(ctx context.Context, items []models.CartItem, cardPrice float64) (pricing.Quote, error) {
	seen := make(map[string]bool)
	var vendorIDs []string
	for _, item := range items {
		if item.VendorID != "" && !seen[item.VendorID] {
			seen[item.VendorID] = true
			vendorIDs = append(vendorIDs, item.VendorID)
		}
	}

	rules, err := h.rules.GetShippingRules(ctx, vendorIDs)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.BuildQuote(items, cardPrice, rules, h.opts.TaxRate), nil
}

// GetSummary prices the cart and the selected card with per-vendor shipping
// and tax
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	sessionID, store, ok := h.session(c)
	if !ok {
		return
	}

	q, err := h.quote(c.Request.Context(), h.carts.Get(sessionID).Items(), store.Snapshot().Card.Price)
	if err != nil {
		h.logger.Error("shipping rules unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate totals"})
		return
	}
	c.JSON(http.StatusOK, q)
}

// Complete places the order of a confirmed checkout, empties the cart and
// generates the order QR codes. QR failures do not fail the order; the
// create-order-qr function can be retried for it.
func (h *CheckoutHandler) Complete(c *gin.Context) {
	sessionID, store, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	snap, err := store.Begin()
	if err != nil {
		h.respondError(c, err)
		return
	}

	cartStore := h.carts.Get(sessionID)
	items := cartStore.Items()
	if len(items) == 0 {
		store.Abort()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	q, err := h.quote(ctx, items, snap.Card.Price)
	if err != nil {
		store.Abort()
		h.logger.Error("shipping rules unavailable", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate totals"})
		return
	}

	resp, err := h.orders.CreateOrder(ctx, newOrder(sessionID, snap, q), newOrderItems(items))
	if err != nil {
		store.Abort()
		h.logger.Error("create order failed", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	if _, err := store.Complete(); err != nil {
		h.logger.Warn("checkout changed while completing", zap.Error(err))
		store.Reset()
	}
	cartStore.Clear()

	result, err := h.qr.Generate(ctx, resp.Order.ID)
	if err != nil {
		h.logger.Error("order qr generation failed", zap.String("order_id", resp.Order.ID), zap.Error(err))
	} else {
		resp.VendorCount = result.VendorCount
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	sessionID, _, ok := h.session(c)
	if !ok {
		return
	}
	orders, err := h.orders.GetOrdersBySession(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func newOrder(sessionID string, s checkout.Session, q pricing.Quote) *models.Order {
	r := s.Recipient
	order := &models.Order{
		SessionID:          &sessionID,
		Status:             models.OrderStatusPending,
		RecipientFirstName: r.FirstName,
		RecipientLastName:  r.LastName,
		RecipientEmail:     optional(r.Email),
		RecipientPhone:     optional(r.Phone),
		RecipientStreet:    r.Street,
		RecipientApartment: optional(r.Apartment),
		RecipientCity:      r.City,
		RecipientState:     r.State,
		RecipientZip:       r.Zip,
		RecipientCountry:   r.Country,
		CardType:           optional(s.Card.Type),
		CardPrice:          s.Card.Price,
		Subtotal:           q.Subtotal,
		ShippingCost:       q.Shipping.Total,
		TaxAmount:          q.Tax.Total,
		TotalAmount:        q.Total,
	}

	if s.Memory.Type.Valid() {
		memoryType := string(s.Memory.Type)
		order.MemoryType = &memoryType
		order.MemoryMessage = optional(s.Memory.Message)
		switch s.Memory.Type {
		case checkout.MemoryVideo:
			order.MemoryURL = optional(s.Memory.VideoURL)
		case checkout.MemoryPhoto:
			order.MemoryURL = optional(s.Memory.PhotoURL)
		}
	}
	return order
}

func newOrderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		unit := pricing.ParsePrice(item.Price)
		oi := models.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   unit,
			TotalPrice:  unit * float64(item.Quantity),
		}
		if _, err := uuid.Parse(item.VendorID); err == nil {
			vendorID := item.VendorID
			oi.VendorID = &vendorID
		}
		out = append(out, oi)
	}
	return out
}
