package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/bizadvisor/advisor/internal/app/api/middleware"
	subsvc "github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/internal/platform/paypal"
	"github.com/bizadvisor/advisor/pkg/logctx"
	"github.com/bizadvisor/advisor/pkg/response"
	"github.com/bizadvisor/advisor/pkg/types"
	"go.uber.org/zap"
)

// subscriptionView augments the stored record with the read-time projections:
// effective status and questions remaining.
type subscriptionView struct {
	*models.Subscription
	EffectiveStatus types.SubscriptionStatus `json:"effective_status"`
	QuestionsLeft   int                      `json:"questions_left"`
}

func toSubscriptionView(s *models.Subscription) *subscriptionView {
	return &subscriptionView{
		Subscription:    s,
		EffectiveStatus: s.EffectiveStatus(),
		QuestionsLeft:   s.QuestionsLeft(),
	}
}

// @Summary      Current subscription
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  response.APIResponse[handlers.subscriptionView]
// @Router       /api/v1/subscription [get]
func ApiSubscriptionCurrent(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		sub, err := svc.Current(c.Request.Context(), user.Email)
		if err != nil {
			if errors.Is(err, subsvc.ErrNoSubscription) {
				c.JSON(http.StatusOK, response.OKT[*subscriptionView](nil))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toSubscriptionView(sub)))
	}
}

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
}

// @Summary      Start checkout
// @Description  Creates a pending subscription and returns the external payment handoff.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body handlers.checkoutRequest true "Plan selection"
// @Success      200  {object}  response.APIResponse[subsvc.CheckoutResult]
// @Router       /api/v1/subscription/checkout [post]
func ApiSubscriptionCheckout(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.PlanID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "plan_id is required", nil))
			return
		}

		res, err := svc.Initiate(c.Request.Context(), user, req.PlanID)
		if err != nil {
			switch {
			case errors.Is(err, subsvc.ErrActiveSubscriptionExists),
				errors.Is(err, subsvc.ErrPlanNotFound):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			default:
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Cancel pending checkout
// @Tags         Subscription
// @Produce      json
// @Router       /api/v1/subscription/cancel [post]
func ApiSubscriptionCancel(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		if err := svc.Cancel(c.Request.Context(), user.Email); err != nil {
			if errors.Is(err, subsvc.ErrNotPending) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type paypalWebhookRequest struct {
	WebhookID      string `json:"webhook_id"`
	SubscriptionID string `json:"subscription_id"`
}

// @Summary      PayPal confirmation webhook
// @Description  Out-of-band payment confirmation: transitions pending to active.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Router       /webhook/paypal [post]
func ApiPayPalWebhook(svc *subsvc.Service, pay *paypal.Client, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paypalWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.SubscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "subscription_id is required", nil))
			return
		}
		if !pay.VerifyWebhookID(req.WebhookID) {
			logctx.FromGin(c, log).Warnw("webhook rejected: bad webhook id", "subscription_id", req.SubscriptionID)
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, "unknown webhook id", nil))
			return
		}

		sub, err := svc.Confirm(c.Request.Context(), req.SubscriptionID)
		if err != nil {
			switch {
			case errors.Is(err, subsvc.ErrNoSubscription), errors.Is(err, subsvc.ErrNotPending):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			default:
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(toSubscriptionView(sub)))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.GET("/subscription", ApiSubscriptionCurrent(svc))
	r.POST("/subscription/checkout", ApiSubscriptionCheckout(svc))
	r.POST("/subscription/cancel", ApiSubscriptionCancel(svc))
}
