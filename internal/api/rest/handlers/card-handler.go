package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/iscsolutions/card_service/internal/dto"
	"github.com/iscsolutions/card_service/internal/services"
	"github.com/iscsolutions/card_service/pkg/utils"
)

type CardHandler struct {
	svc services.CardService
}

func NewCardHandler(svc services.CardService) *CardHandler {
	return &CardHandler{svc: svc}
}

func (h *CardHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	cards := api.Group("/cards")
	cards.Post("/", h.CreateCard)
	cards.Get("/:nationalCode", h.GetCardsByNationalCode)

	api.Get("/stats", h.GetStatistics)
	api.Delete("/cache", h.ClearCache)
	api.Delete("/data", h.ClearAllData)
}

func (h *CardHandler) CreateCard(ctx *fiber.Ctx) error {
	var requestBody dto.CreateCardRequest

	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	if requestBody.CardNumber == "" || requestBody.AccountNumber == "" || requestBody.IssuerCode == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest,
			"card_number, account_number and issuer_code are required")
	}

	card, err := h.svc.CreateCard(requestBody)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.CardResponseFrom(card))
}

func (h *CardHandler) GetCardsByNationalCode(ctx *fiber.Ctx) error {
	nationalCode := ctx.Params("nationalCode")

	cards, err := h.svc.GetCardsByNationalCode(nationalCode)
	if err != nil {
		return respondServiceError(ctx, err)
	}

	if len(cards) == 0 {
		return utils.ResponseError(ctx, fiber.StatusNotFound,
			fmt.Sprintf("no cards found for national code %s", nationalCode))
	}

	responses := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, dto.CardResponseFrom(card))
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, responses)
}

func (h *CardHandler) GetStatistics(ctx *fiber.Ctx) error {
	return utils.ResponseSuccess(ctx, fiber.StatusOK, h.svc.Statistics())
}

func (h *CardHandler) ClearCache(ctx *fiber.Ctx) error {
	h.svc.ClearAll()
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "cache cleared")
}

func (h *CardHandler) ClearAllData(ctx *fiber.Ctx) error {
	if err := h.svc.ClearAllIncludingDatabase(); err != nil {
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "all data cleared")
}

func respondServiceError(ctx *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, validationErr.Error())
	case errors.As(err, &conflictErr):
		return utils.ResponseError(ctx, fiber.StatusConflict, conflictErr.Error())
	case errors.Is(err, services.ErrDuplicateCard):
		return utils.ResponseError(ctx, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, err.Error())
	default:
		return utils.ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
}
