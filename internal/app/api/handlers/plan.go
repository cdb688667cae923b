package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	plansvc "github.com/bizadvisor/advisor/internal/app/service/plan"
	"github.com/bizadvisor/advisor/internal/models"
	"github.com/bizadvisor/advisor/pkg/response"
	"github.com/bizadvisor/advisor/pkg/types"
)

// planView flattens the stored JSON feature lists for the client.
type planView struct {
	ID                string             `json:"id"`
	NameEN            string             `json:"name_en"`
	NameAR            string             `json:"name_ar"`
	Price             float64            `json:"price"`
	Credits           int                `json:"credits"`
	TokensPerQuestion int                `json:"tokens_per_question"`
	BillingCycle      types.BillingCycle `json:"billing_cycle"`
	FeaturesEN        []string           `json:"features_en"`
	FeaturesAR        []string           `json:"features_ar"`
	IsActive          bool               `json:"is_active"`
	Order             int                `json:"order"`
}

func toPlanView(p *models.Plan) *planView {
	return &planView{
		ID:                p.ID,
		NameEN:            p.NameEN,
		NameAR:            p.NameAR,
		Price:             p.Price,
		Credits:           p.Credits,
		TokensPerQuestion: p.TokensPerQuestion,
		BillingCycle:      p.BillingCycle,
		FeaturesEN:        p.FeaturesEN.Data(),
		FeaturesAR:        p.FeaturesAR.Data(),
		IsActive:          p.IsActive,
		Order:             p.DisplayOrder,
	}
}

// @Summary      List plans
// @Description  Active plans in display order; read-only reference data.
// @Tags         Plan
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]handlers.planView]
// @Router       /plans [get]
func ApiPlanList(svc *plansvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := svc.ListActive(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(lo.Map(plans, func(p *models.Plan, _ int) *planView {
			return toPlanView(p)
		})))
	}
}

func RegisterPlanRoutes(r gin.IRouter, svc *plansvc.Service) {
	r.GET("/plans", ApiPlanList(svc))
}
