package handler

import (
	"net/http"
	"strconv"

	"profilehub/internal/dto"
	"profilehub/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	Users    *service.UserService
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewUserHandler(users *service.UserService, validate *validator.Validate, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Users: users, Validate: validate, Logger: logger}
}

func (h *UserHandler) Search(c echo.Context) error {
	users, err := h.Users.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Users retrieved successfully", dto.UserSearchResponse{
		Users: dto.UserResponsesFromEntities(users),
		Count: len(users),
	})
}

func (h *UserHandler) GetByID(c echo.Context) error {
	id, ok := parseUserID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	user, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "User retrieved successfully", map[string]any{
		"user": dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, pagination, err := h.Users.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "Users retrieved successfully", dto.UserListResponse{
		Users:      dto.UserResponsesFromEntities(users),
		Pagination: pagination,
	})
}

func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseUserID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	var req dto.UpdateUserRequest
	if ok, err := bindAndValidate(c, h.Validate, &req); !ok {
		return err
	}
	user, err := h.Users.Update(c.Request().Context(), id, service.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	}, stringPtr(c.RealIP()))
	if err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "User updated successfully", map[string]any{
		"user": dto.UserResponseFromEntity(user),
	})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseUserID(c)
	if !ok {
		return writeError(c, http.StatusBadRequest, "invalid user id")
	}
	if err := h.Users.Delete(c.Request().Context(), id, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, h.Logger, err)
	}
	return writeSuccess(c, http.StatusOK, "User deleted successfully", nil)
}

func parseUserID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
