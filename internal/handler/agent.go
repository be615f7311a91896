package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/agent"
	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/config"
)

// AgentIntake books a raw agent payload.  agent.Intake implements it.
type AgentIntake interface {
	Handle(ctx context.Context, raw []byte) (booking.Result, error)
}

// AgentHandler serves the voice agent: the session bootstrap for the
// client widget and the booking tool-call webhook.
type AgentHandler struct {
	Cfg    config.AgentConfig
	Rooms  agent.RoomLister
	Intake AgentIntake
}

func NewAgentHandler(cfg config.AgentConfig, rooms agent.RoomLister, intake AgentIntake) *AgentHandler {
	if rooms == nil || intake == nil {
		panic("nil dependency passed to NewAgentHandler")
	}
	return &AgentHandler{Cfg: cfg, Rooms: rooms, Intake: intake}
}

// maxAgentPayload caps the webhook body.
const maxAgentPayload = 64 << 10

// Session handles GET /v1/agent/session.  The route sits behind the
// paid-session guard.
func (h *AgentHandler) Session(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	info, err := agent.Snapshot(ctx, h.Rooms, h.Cfg)
	if err != nil {
		return failApp(c, err, "Could not start agent session")
	}
	return c.JSON(http.StatusOK, info)
}

// Book handles POST /v1/agent/reservations.  Rejections answer 200 so the
// agent can read the error back to the caller; only payloads that hold no
// reservation at all answer 400.
func (h *AgentHandler) Book(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxAgentPayload))
	if err != nil {
		return c.JSON(http.StatusBadRequest, booking.Result{Error: "Invalid request body"})
	}
	res, err := h.Intake.Handle(c.Request().Context(), raw)
	if errors.Is(err, agent.ErrUnrecognizedPayload) {
		return c.JSON(http.StatusBadRequest, res)
	}
	return c.JSON(http.StatusOK, res)
}
