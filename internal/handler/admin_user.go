package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/config"
	"github.com/parketr3s/parke-tres/internal/model"
	"github.com/parketr3s/parke-tres/internal/repository"
)

// AdminUserHandler manages staff accounts. Admin-only.
type AdminUserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAdminUserHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AdminUserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Username == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and a password of at least 6 characters are required"})
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleWorker {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or WORKER"})
	}
	id, err := h.Users.Create(c.Request().Context(), req.Username, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "username": req.Username, "role": req.Role})
}

func (h *AdminUserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

type updateUserReq struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// Update applies any combination of role change, activation toggle and
// password reset. Admins cannot deactivate their own account.
func (h *AdminUserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if req.IsActive != nil && !*req.IsActive {
		if self, err := getUserID(c); err == nil && self == id {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot deactivate your own account"})
		}
	}
	if req.Role != nil {
		if *req.Role != model.RoleAdmin && *req.Role != model.RoleWorker {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ADMIN or WORKER"})
		}
		if err := h.Users.SetRole(ctx, id, *req.Role); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
		}
	}
	if req.IsActive != nil {
		if err := h.Users.SetActive(ctx, id, *req.IsActive); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
		}
		// Deactivation kills every live session immediately.
		if !*req.IsActive {
			_ = h.Tokens.RevokeAllForUser(ctx, id)
		}
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
		}
		if err := h.Users.SetPassword(ctx, id, *req.Password, h.Cfg.BcryptCost); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
		}
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u)
}
