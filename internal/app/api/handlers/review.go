package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mw "github.com/bizadvisor/advisor/internal/app/api/middleware"
	reviewsvc "github.com/bizadvisor/advisor/internal/app/service/review"
	"github.com/bizadvisor/advisor/pkg/response"
)

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// @Summary      Create a review
// @Tags         Review
// @Accept       json
// @Produce      json
// @Router       /api/v1/reviews [post]
func ApiReviewCreate(svc *reviewsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := mw.CurrentUser(c)

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
			return
		}

		r, err := svc.Create(c.Request.Context(), user, req.Rating, req.Comment)
		if err != nil {
			if errors.Is(err, reviewsvc.ErrInvalidRating) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error(), nil))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(r))
	}
}

// @Summary      List reviews
// @Tags         Review
// @Produce      json
// @Param        limit query int false "Max rows"
// @Router       /reviews [get]
func ApiReviewList(svc *reviewsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		rows, err := svc.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error(), nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}
