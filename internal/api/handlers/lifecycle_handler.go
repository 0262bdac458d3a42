package handlers

import (
	"GiveShare-Backend/domain"
	"GiveShare-Backend/internal/api/presenters"
	"GiveShare-Backend/pkg/lifecycle"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	LifecycleHandler interface {
		RequestItem(c *fiber.Ctx) error
		ApproveRequest(c *fiber.Ctx) error
		RejectRequest(c *fiber.Ctx) error
		MarkDonated(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		GetIncomingRequests(c *fiber.Ctx) error
		GetOutgoingRequests(c *fiber.Ctx) error
	}

	lifecycleHandler struct {
		lifecycleService lifecycle.LifecycleService
		validator        *validator.Validate
	}
)

func NewLifecycleHandler(lifecycleService lifecycle.LifecycleService, validator *validator.Validate) LifecycleHandler {
	return &lifecycleHandler{
		lifecycleService: lifecycleService,
		validator:        validator,
	}
}

func (h *lifecycleHandler) RequestItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := domain.RequestItemRequest{ItemID: c.Params("id")}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestItem, err)
	}

	res, err := h.lifecycleService.RequestItem(c.Context(), req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedRequestItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRequestItem)
}

func (h *lifecycleHandler) ApproveRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := domain.DecideRequestRequest{
		ItemID:    c.Params("id"),
		RequestID: c.Params("request_id"),
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApproveRequest, err)
	}

	if err := h.lifecycleService.ApproveRequest(c.Context(), req, userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedApproveRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessApproveRequest)
}

func (h *lifecycleHandler) RejectRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := domain.DecideRequestRequest{
		ItemID:    c.Params("id"),
		RequestID: c.Params("request_id"),
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRejectRequest, err)
	}

	if err := h.lifecycleService.RejectRequest(c.Context(), req, userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedRejectRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectRequest)
}

func (h *lifecycleHandler) MarkDonated(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := domain.MarkDonatedRequest{ItemID: c.Params("id")}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkDonated, err)
	}

	if err := h.lifecycleService.MarkDonated(c.Context(), req, userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedMarkDonated, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkDonated)
}

func (h *lifecycleHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.lifecycleService.DeleteItem(c.Context(), itemID, userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *lifecycleHandler) GetIncomingRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	status := c.Query("status")

	res, err := h.lifecycleService.GetIncomingRequests(c.Context(), userID, status)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *lifecycleHandler) GetOutgoingRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.lifecycleService.GetOutgoingRequests(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRequests)
}
