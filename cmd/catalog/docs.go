package main

// @title Eco Catalog API
// @version 1.0
// @description Product catalog with eco scores, demographic recommendations, cart, wishlist and view history

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Products
// @tag.description Catalog browsing and search

// @tag.name Recommendations
// @tag.description Demographic and personalized recommendations

// @tag.name Cart
// @tag.description Shopping cart

// @tag.name Wishlist
// @tag.description Saved products

// @tag.name History
// @tag.description Recently viewed products

// @tag.name Health
// @tag.description Health check endpoints
