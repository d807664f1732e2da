package controller

import (
	"planning-poker-be/internal/constant"
	"planning-poker-be/internal/dto"
	"planning-poker-be/internal/pkg/serverutils"
	"planning-poker-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Join(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Reveal(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	SelectStory(ctx *fiber.Ctx) error
	JoinQR(ctx *fiber.Ctx) error
	Deck(ctx *fiber.Ctx) error
}

type sessionController struct {
	service   service.ISessionService
	clientURL string
}

func NewSessionController(service service.ISessionService, clientURL string) ISessionController {
	return &sessionController{service: service, clientURL: clientURL}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)
	h.Post("/join", c.Join)
	h.Get("/deck", c.Deck)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/reveal", c.Reveal)
	h.Post(":id/reset", c.Reset)
	h.Put(":id/story", c.SelectStory)
	h.Get(":id/qr", c.JoinQR)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Join(ctx *fiber.Ctx) error {
	var req dto.JoinSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Join(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success join session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) Reveal(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	if err := c.service.Reveal(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reveal votes", nil))
}

func (c *sessionController) Reset(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	if err := c.service.Reset(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset votes", nil))
}

func (c *sessionController) SelectStory(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	var req dto.SelectStoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.SelectStory(ctx.Context(), id, req.StoryId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success select story", nil))
}

// JoinQR renders a PNG QR code pointing at the client join page for this
// session's room code.
func (c *sessionController) JoinQR(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("Invalid session id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	joinURL := c.clientURL + "/join?code=" + res.Session.RoomCode
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "image/png")
	return ctx.Send(png)
}

func (c *sessionController) Deck(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get deck", constant.Deck))
}
