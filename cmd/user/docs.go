package main

// @title User Service API
// @version 1.0
// @description Accounts and JWT authentication for the eco catalog

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Users
// @tag.description User profile endpoints

// @tag.name Health
// @tag.description Health check endpoints
