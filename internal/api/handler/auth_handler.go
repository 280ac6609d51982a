package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techzone/storefront-api/internal/api/middleware"
	"github.com/techzone/storefront-api/internal/core/domain"
	"github.com/techzone/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidArgument)
	}
	return c.Validate(req)
}

// Register creates a shopper account and signs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  userResponse     "Sets the userToken cookie"
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toRegisterInput(req)
	if err != nil {
		return err
	}

	sess, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	h.cookies.set(c, middleware.UserCookie, sess.Token, sess.ExpiresAt)
	return c.JSON(http.StatusOK, userResponse{Success: true, Message: "User Registered!", User: sess.User})
}

// Login authenticates a principal for the role it claims.
//
// @Summary      Login
// @Description  Sets adminToken for Admin and Manager, userToken for User.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), toLoginInput(req))
	if err != nil {
		return err
	}

	h.cookies.set(c, channelFor(sess.User.Role), sess.Token, sess.ExpiresAt)
	return c.JSON(http.StatusCreated, userResponse{Success: true, Message: "Login Successfully!", User: sess.User})
}

// Me returns the authenticated principal.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/user/admin/me [get]
// @Router       /api/user/user/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := principal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: u})
}

// LogoutAdmin clears the admin channel cookie. Tokens stay valid until they
// expire; logout only removes the browser's copy.
//
// @Summary      Admin logout
// @Tags         auth
// @Produce      json
// @Success      201  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/user/admin/logout [get]
func (h *AuthHandler) LogoutAdmin(c echo.Context) error {
	h.cookies.clear(c, middleware.AdminCookie)
	return c.JSON(http.StatusCreated, messageResponse{Success: true, Message: "Admin Logged Out Successfully."})
}

// LogoutUser clears the user channel cookie.
//
// @Summary      User logout
// @Tags         auth
// @Produce      json
// @Success      201  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/user/user/logout [get]
func (h *AuthHandler) LogoutUser(c echo.Context) error {
	h.cookies.clear(c, middleware.UserCookie)
	return c.JSON(http.StatusCreated, messageResponse{Success: true, Message: "User Logged Out Successfully."})
}

// AddAdmin provisions another Admin.
//
// @Summary      Add admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Admin details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/user/admin/addnew [post]
func (h *AuthHandler) AddAdmin(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.provision(c, domain.RoleAdmin, req, "", "New Admin Registered")
}

// AddManager provisions a Manager for a department.
//
// @Summary      Add manager
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      provisionManagerRequest  true  "Manager details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/user/manager/addnew [post]
func (h *AuthHandler) AddManager(c echo.Context) error {
	var req provisionManagerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.provision(c, domain.RoleManager, req.registerRequest, req.Department, "New Manager Registered")
}

func (h *AuthHandler) provision(c echo.Context, role domain.Role, req registerRequest, department, message string) error {
	in, err := toRegisterInput(req)
	if err != nil {
		return err
	}
	in.Department = department

	user, err := h.authService.Provision(c.Request().Context(), role, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, Message: message, User: user})
}

// ListAdmins lists every Admin.
//
// @Summary      List admins
// @Tags         admin
// @Produce      json
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/user/admin/getall [get]
func (h *AuthHandler) ListAdmins(c echo.Context) error {
	return h.list(c, domain.RoleAdmin)
}

// ListUsers lists every shopper.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/user/user/info [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	return h.list(c, domain.RoleUser)
}

// ListManagers lists every Manager. The route is public.
//
// @Summary      List managers
// @Tags         managers
// @Produce      json
// @Success      200  {object}  usersResponse
// @Router       /api/user/managers [get]
func (h *AuthHandler) ListManagers(c echo.Context) error {
	return h.list(c, domain.RoleManager)
}

func (h *AuthHandler) list(c echo.Context, role domain.Role) error {
	users, err := h.authService.ListByRole(c.Request().Context(), role)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, usersResponse{Success: true, Users: users})
}

// DeleteUser removes a shopper account.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/user/user/delete/{id} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	return h.delete(c, domain.RoleUser, "User deleted successfully")
}

// DeleteManager removes a Manager account.
//
// @Summary      Delete manager
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Manager ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/user/manager/delete/{id} [delete]
func (h *AuthHandler) DeleteManager(c echo.Context) error {
	return h.delete(c, domain.RoleManager, "Manager deleted successfully")
}

func (h *AuthHandler) delete(c echo.Context, role domain.Role, message string) error {
	if err := h.authService.Delete(c.Request().Context(), c.Param("id"), role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: message})
}
