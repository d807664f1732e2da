package controller

import (
	"planning-poker-be/internal/dto"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IParticipantController interface {
	RegisterRoutes(r fiber.Router)
	CastVote(ctx *fiber.Ctx) error
	Heartbeat(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
}

type participantController struct {
	service service.IParticipantService
}

func NewParticipantController(service service.IParticipantService) IParticipantController {
	return &participantController{service: service}
}

func (c *participantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/participant/v1")
	h.Put(":id/vote", c.CastVote)
	h.Post(":id/heartbeat", c.Heartbeat)
	h.Delete(":id", c.Remove)
}

func (c *participantController) CastVote(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid participant id")
	}

	var req dto.CastVoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CastVote(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cast vote", res))
}

func (c *participantController) Heartbeat(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid participant id")
	}

	if err := c.service.Heartbeat(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success heartbeat", nil))
}

func (c *participantController) Remove(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid participant id")
	}

	if err := c.service.Remove(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove participant", nil))
}
