package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	mw "github.com/bizadvisor/advisor/internal/app/api/middleware"
	"github.com/bizadvisor/advisor/internal/app/service/activity"
	"github.com/bizadvisor/advisor/internal/app/service/chat"
	"github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/pkg/response"
)

// @Summary      Ask a question
// @Description  Relays a question for the verified caller, debits 2 credits on success and persists the exchange.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request body chat.AskRequest true "Question"
// @Success      200  {object}  response.APIResponse[chat.AskResult]
// @Router       /api/v1/chat/ask [post]
func ApiChatAsk(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		var req chat.AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "prompt is required", nil))
			return
		}

		res, err := svc.Ask(c.Request.Context(), user, &req)
		if err != nil {
			switch {
			case errors.Is(err, subscription.ErrNoSubscription),
				errors.Is(err, subscription.ErrNoActiveSubscription),
				errors.Is(err, subscription.ErrInsufficientCredits):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			default:
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Conversation history
// @Tags         Chat
// @Produce      json
// @Param        conversation_id query string false "Scope to one conversation"
// @Router       /api/v1/chat/history [get]
func ApiChatHistory(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		rows, err := svc.History(c.Request.Context(), user.Email, c.Query("conversation_id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      List notifications
// @Tags         Chat
// @Produce      json
// @Router       /api/v1/notifications [get]
func ApiNotifications(act *activity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		rows, err := act.ListNotifications(c.Request.Context(), user.Email)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterChatRoutes(r gin.IRouter, svc *chat.Service, act *activity.Service) {
	r.POST("/chat/ask", ApiChatAsk(svc))
	r.GET("/chat/history", ApiChatHistory(svc))
	r.GET("/notifications", ApiNotifications(act))
}
