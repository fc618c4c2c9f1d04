package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"collection_finder/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnProfiles, th.CommandEqual("profiles"))
	adminGroup.HandleMessage(h.OnSearch, th.CommandEqual("search"))
	adminGroup.HandleMessage(h.OnDebug, th.CommandEqual("debug"))
	adminGroup.HandleMessage(h.OnResult, th.CommandEqual("result"))
}
