package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/eco-catalog/internal/activity/usecase/command"
	"github.com/tair/eco-catalog/internal/activity/usecase/query"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/middleware"
	"github.com/tair/eco-catalog/pkg/params"
	"github.com/tair/eco-catalog/pkg/respond"
)

// ActivityHandler serves the cart, wishlist and view history of the caller
type ActivityHandler struct {
	recordView         *command.RecordViewHandler
	addToCart          *command.AddToCartHandler
	updateCartQuantity *command.UpdateCartQuantityHandler
	removeFromCart     *command.RemoveFromCartHandler
	addToWishlist      *command.AddToWishlistHandler
	removeFromWishlist *command.RemoveFromWishlistHandler

	listCart     *query.ListCartHandler
	listWishlist *query.ListWishlistHandler
	listHistory  *query.ListViewHistoryHandler

	auth          *middleware.Authenticator
	metrics       *middleware.HTTPMetrics
	ledgerMetrics *Metrics
}

// Commands groups the ledger write handlers
type Commands struct {
	RecordView         *command.RecordViewHandler
	AddToCart          *command.AddToCartHandler
	UpdateCartQuantity *command.UpdateCartQuantityHandler
	RemoveFromCart     *command.RemoveFromCartHandler
	AddToWishlist      *command.AddToWishlistHandler
	RemoveFromWishlist *command.RemoveFromWishlistHandler
}

// Queries groups the ledger read handlers
type Queries struct {
	ListCart     *query.ListCartHandler
	ListWishlist *query.ListWishlistHandler
	ListHistory  *query.ListViewHistoryHandler
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(
	commands Commands,
	queries Queries,
	auth *middleware.Authenticator,
	metrics *middleware.HTTPMetrics,
	ledgerMetrics *Metrics,
) *ActivityHandler {
	return &ActivityHandler{
		recordView:         commands.RecordView,
		addToCart:          commands.AddToCart,
		updateCartQuantity: commands.UpdateCartQuantity,
		removeFromCart:     commands.RemoveFromCart,
		addToWishlist:      commands.AddToWishlist,
		removeFromWishlist: commands.RemoveFromWishlist,
		listCart:           queries.ListCart,
		listWishlist:       queries.ListWishlist,
		listHistory:        queries.ListHistory,
		auth:               auth,
		metrics:            metrics,
		ledgerMetrics:      ledgerMetrics,
	}
}

// RegisterRoutes mounts the ledger endpoints. All of them need a signed-in user.
func (h *ActivityHandler) RegisterRoutes(router *mux.Router) {
	route := func(path, method string, fn http.HandlerFunc) {
		router.HandleFunc(path, h.metrics.Wrap(path, h.auth.Require(fn))).Methods(method)
	}

	route("/api/cart", http.MethodGet, h.ListCart)
	route("/api/cart", http.MethodPost, h.AddToCart)
	route("/api/cart/{productId}", http.MethodPut, h.UpdateCartQuantity)
	route("/api/cart/{productId}", http.MethodDelete, h.RemoveFromCart)

	route("/api/wishlist", http.MethodGet, h.ListWishlist)
	route("/api/wishlist", http.MethodPost, h.AddToWishlist)
	route("/api/wishlist/{productId}", http.MethodDelete, h.RemoveFromWishlist)

	route("/api/history", http.MethodGet, h.ListHistory)
	route("/api/history", http.MethodPost, h.RecordView)
}

type productRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  *int `json:"quantity,omitempty"`
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.InvalidArgument("body", "Invalid request body")
	}
	return nil
}

func currentUser(r *http.Request) (uint, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, apperror.Unauthorized("Authentication required")
	}
	return userID, nil
}

// ListCart handles GET /api/cart
func (h *ActivityHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	items, err := h.listCart.Handle(r.Context(), query.ListCartQuery{UserID: userID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, map[string]interface{}{"cart_items": items})
}

// AddToCart handles POST /api/cart. Quantity defaults to 1 when omitted.
func (h *ActivityHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req productRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := h.addToCart.Handle(r.Context(), command.AddToCartCommand{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  quantity,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.ledgerMetrics.CartAdditions.Inc()
	respond.JSON(w, http.StatusOK, respond.Response{
		Success: true,
		Message: "Product added to cart",
		Data:    map[string]interface{}{"cart_item": item},
	})
}

// UpdateCartQuantity handles PUT /api/cart/{productId}
func (h *ActivityHandler) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	productID, err := params.PathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req productRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}
	if req.Quantity == nil {
		respond.Error(w, r, apperror.InvalidArgument("quantity", "quantity is required"))
		return
	}

	item, err := h.updateCartQuantity.Handle(r.Context(), command.UpdateCartQuantityCommand{
		UserID:    userID,
		ProductID: productID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if item == nil {
		respond.Message(w, "Product removed from cart")
		return
	}
	respond.JSON(w, http.StatusOK, respond.Response{
		Success: true,
		Message: "Cart updated",
		Data:    map[string]interface{}{"cart_item": item},
	})
}

// RemoveFromCart handles DELETE /api/cart/{productId}
func (h *ActivityHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	productID, err := params.PathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.removeFromCart.Handle(r.Context(), command.RemoveFromCartCommand{UserID: userID, ProductID: productID}); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, "Product removed from cart")
}

// ListWishlist handles GET /api/wishlist
func (h *ActivityHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	items, err := h.listWishlist.Handle(r.Context(), query.ListWishlistQuery{UserID: userID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, map[string]interface{}{"wishlist_items": items})
}

// AddToWishlist handles POST /api/wishlist
func (h *ActivityHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req productRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	item, err := h.addToWishlist.Handle(r.Context(), command.AddToWishlistCommand{UserID: userID, ProductID: req.ProductID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Response{
		Success: true,
		Message: "Product added to wishlist",
		Data:    map[string]interface{}{"wishlist_item": item},
	})
}

// RemoveFromWishlist handles DELETE /api/wishlist/{productId}
func (h *ActivityHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	productID, err := params.PathID(r, "productId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.removeFromWishlist.Handle(r.Context(), command.RemoveFromWishlistCommand{UserID: userID, ProductID: productID}); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, "Product removed from wishlist")
}

// ListHistory handles GET /api/history. Without a limit the whole history is returned.
func (h *ActivityHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	limit, err := params.QueryInt(r, "limit", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	offset, err := params.QueryInt(r, "offset", 0)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	items, err := h.listHistory.Handle(r.Context(), query.ListViewHistoryQuery{UserID: userID, Limit: limit, Offset: offset})
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, map[string]interface{}{"viewed_products": items})
}

// RecordView handles POST /api/history
func (h *ActivityHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req productRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	view, err := h.recordView.Handle(r.Context(), command.RecordViewCommand{UserID: userID, ProductID: req.ProductID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.ledgerMetrics.ViewsRecorded.Inc()
	respond.JSON(w, http.StatusOK, respond.Response{
		Success: true,
		Message: "View recorded",
		Data:    map[string]interface{}{"view": view},
	})
}
