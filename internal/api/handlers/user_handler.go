package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/user"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		DeleteMe(c *fiber.Ctx) error
		GetUser(c *fiber.Ctx) error
		GetUsers(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
	}

	userHandler struct {
		userService   user.UserService
		subscriptions relation.ToggleService
		validator     *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, subscriptions relation.ToggleService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService:   userService,
		subscriptions: subscriptions,
		validator:     validator,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegister, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRegister, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLogin, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedLogin, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	res, err := h.userService.GetProfile(c.Context(), userID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) DeleteMe(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Context(), middleware.UserID(c)); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedDeleteUser, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *userHandler) GetUser(c *fiber.Ctx) error {
	res, err := h.userService.GetProfile(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}

func (h *userHandler) GetUsers(c *fiber.Ctx) error {
	page, limit := pagination(c)

	users, count, err := h.userService.GetUsers(c.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetUsers, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"users":      users,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func recipesLimit(c *fiber.Ctx) int {
	n, err := strconv.Atoi(c.Query("recipes_limit", "3"))
	if err != nil || n < 0 {
		return 3
	}
	return n
}

func (h *userHandler) GetSubscriptions(c *fiber.Ctx) error {
	page, limit := pagination(c)

	authors, count, err := h.userService.ListSubscriptions(c.Context(), middleware.UserID(c), page, limit, recipesLimit(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedGetSubscriptions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"authors":    authors,
		"pagination": domain.NewPagination(page, limit, count),
	}, fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}

func (h *userHandler) Subscribe(c *fiber.Ctx) error {
	authorID := c.Params("id")

	if err := h.subscriptions.Add(c.Context(), middleware.UserID(c), authorID); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedSubscribe, err)
	}

	res, err := h.userService.GetSubscriptionCard(c.Context(), authorID, recipesLimit(c))
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *userHandler) Unsubscribe(c *fiber.Ctx) error {
	if err := h.subscriptions.Remove(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedUnsubscribe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
