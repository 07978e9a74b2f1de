package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chat-gateway-go/internal/model"
	"chat-gateway-go/internal/service"
)

// UserHandler serves /api/v1/users. The Authorization header is passed
// through untouched.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(c echo.Context) error {
	var in model.UserRegister
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Register(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) Login(c echo.Context) error {
	var in model.UserLogin
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.Login(requestContext(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Me(c echo.Context) error {
	out, err := h.svc.Me(requestContext(c), c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if err := service.RequireAuthorization(auth); err != nil {
		return err
	}
	var in model.UserUpdate
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.svc.UpdateMe(requestContext(c), auth, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
