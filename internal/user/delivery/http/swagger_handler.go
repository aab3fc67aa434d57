package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Signup godoc
// @Summary Register a new user
// @Description Create an account. Age and gender feed personalized recommendations.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string,age=int,gender=string} true "User registration data"
// @Success 201 {object} object{success=bool,message=string,data=object{user=object{id=int,name=string,email=string,age=int,gender=string,created_at=string,updated_at=string}}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /auth/signup [post]
func (h *UserHandler) SignupDoc() {}

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and get a JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{success=bool,data=object{token=string,user=object}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/login [post]
func (h *UserHandler) LoginDoc() {}

// GetProfile godoc
// @Summary Get current user profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{user=object}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /users/me [get]
func (h *UserHandler) GetProfileDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string,service=string}
// @Failure 503 {object} object{status=string,service=string,error=string}
// @Router /health [get]
func (h *UserHandler) HealthCheckDoc() {}
