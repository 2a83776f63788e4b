package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register handles POST /auth/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in models.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	if _, err := ac.service.Register(c.Context(), in); err != nil {
		fail(c, err)
		return
	}
	c.Message(http.StatusCreated, "User registered successfully")
}

// Login handles POST /auth/login.
func (ac *AuthController) Login(c *ctx.Context) {
	var in models.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	token, err := ac.service.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, map[string]string{"token": token})
}
