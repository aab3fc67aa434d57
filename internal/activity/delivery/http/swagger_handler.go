package http

// ListCart godoc
// @Summary List the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{cart_items=[]object{kind=string,item=object,product=object}}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/cart [get]
func (h *ActivityHandler) ListCartDoc() {}

// AddToCart godoc
// @Summary Add a product to the cart
// @Description Adding a product already in the cart increases its quantity
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int,quantity=int} true "Product and quantity (default 1)"
// @Success 200 {object} object{success=bool,message=string,data=object{cart_item=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart [post]
func (h *ActivityHandler) AddToCartDoc() {}

// UpdateCartQuantity godoc
// @Summary Set the quantity of a cart item
// @Description A quantity of zero or less removes the item
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param productId path int true "Product ID"
// @Param request body object{quantity=int} true "New quantity"
// @Success 200 {object} object{success=bool,message=string,data=object{cart_item=object}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/{productId} [put]
func (h *ActivityHandler) UpdateCartQuantityDoc() {}

// RemoveFromCart godoc
// @Summary Remove a product from the cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/cart/{productId} [delete]
func (h *ActivityHandler) RemoveFromCartDoc() {}

// ListWishlist godoc
// @Summary List the wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{wishlist_items=[]object{kind=string,item=object,product=object}}}
// @Router /api/wishlist [get]
func (h *ActivityHandler) ListWishlistDoc() {}

// AddToWishlist godoc
// @Summary Save a product to the wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int} true "Product"
// @Success 200 {object} object{success=bool,message=string,data=object{wishlist_item=object}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/wishlist [post]
func (h *ActivityHandler) AddToWishlistDoc() {}

// RemoveFromWishlist godoc
// @Summary Remove a product from the wishlist
// @Tags Wishlist
// @Security BearerAuth
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Router /api/wishlist/{productId} [delete]
func (h *ActivityHandler) RemoveFromWishlistDoc() {}

// ListHistory godoc
// @Summary List recently viewed products
// @Tags History
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (1-100); omit for the whole history"
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} object{success=bool,data=object{viewed_products=[]object{kind=string,item=object,product=object}}}
// @Router /api/history [get]
func (h *ActivityHandler) ListHistoryDoc() {}

// RecordView godoc
// @Summary Record a product view
// @Tags History
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int} true "Product"
// @Success 200 {object} object{success=bool,message=string,data=object{view=object}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/history [post]
func (h *ActivityHandler) RecordViewDoc() {}
