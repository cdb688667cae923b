package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/bizadvisor/advisor/internal/app/service/activity"
	plansvc "github.com/bizadvisor/advisor/internal/app/service/plan"
	subsvc "github.com/bizadvisor/advisor/internal/app/service/subscription"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/pkg/response"
)

type pageOf[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func pageParams(c *gin.Context) (from, size int) {
	if v := c.Query("from"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			from = n
		}
	}
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	return from, size
}

// @Summary      List subscriptions (admin)
// @Tags         Admin
// @Produce      json
// @Router       /api/v1/admin/subscriptions [get]
func ApiAdminSubscriptionList(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, size := pageParams(c)

		rows, total, err := svc.Scan(c.Request.Context(), from, size)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		views := lo.Map(rows, func(s *models.Subscription, _ int) *subscriptionView {
			return toSubscriptionView(s)
		})
		c.JSON(http.StatusOK, response.OKT(pageOf[*subscriptionView]{Items: views, Total: total}))
	}
}

// @Summary      List activity log (admin)
// @Tags         Admin
// @Produce      json
// @Router       /api/v1/admin/activity [get]
func ApiAdminActivityList(act *activity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, size := pageParams(c)

		rows, total, err := act.ListLogs(c.Request.Context(), from, size)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(pageOf[*models.ActivityLog]{Items: rows, Total: total}))
	}
}

// @Summary      List all plans (admin)
// @Tags         Admin
// @Produce      json
// @Router       /api/v1/admin/plans [get]
func ApiAdminPlanList(svc *plansvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := svc.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

// @Summary      Create plan (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Router       /api/v1/admin/plans [post]
func ApiAdminPlanCreate(svc *plansvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.Plan
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			return
		}
		created, err := svc.Create(c.Request.Context(), &p)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

// @Summary      Update plan (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Router       /api/v1/admin/plans/{id} [put]
func ApiAdminPlanUpdate(svc *plansvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p models.Plan
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			return
		}
		p.ID = c.Param("id")
		updated, err := svc.Update(c.Request.Context(), &p)
		if err != nil {
			if errors.Is(err, plansvc.ErrPlanNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

// @Summary      Deactivate plan (admin)
// @Tags         Admin
// @Produce      json
// @Router       /api/v1/admin/plans/{id} [delete]
func ApiAdminPlanDeactivate(svc *plansvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, plansvc.ErrPlanNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminRoutes(r gin.IRouter, sub *subsvc.Service, plans *plansvc.Service, act *activity.Service) {
	r.GET("/subscriptions", ApiAdminSubscriptionList(sub))
	r.GET("/activity", ApiAdminActivityList(act))
	r.GET("/plans", ApiAdminPlanList(plans))
	r.POST("/plans", ApiAdminPlanCreate(plans))
	r.PUT("/plans/:id", ApiAdminPlanUpdate(plans))
	r.DELETE("/plans/:id", ApiAdminPlanDeactivate(plans))
}
