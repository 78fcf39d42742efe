package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matriculahub/enroll/internal/app/service/checkout"
	"github.com/matriculahub/enroll/internal/app/service/credential"
	"github.com/matriculahub/enroll/internal/app/service/submission"
	"github.com/matriculahub/enroll/pkg/response"
)

// @Summary      Submit an enrollment form
// @Description  Public endpoint: stores one applicant's answers for a form. Payment status starts PENDING when the form charges for enrollment.
// @Tags         Submission
// @Accept       json
// @Produce      json
// @Param        request body submission.CreateRequest true "Submission payload"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/submissions [post]
func ApiCreateSubmission(svc *submission.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submission.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.FormID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing form_id"))
			return
		}

		sub, err := svc.Create(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, submission.ErrFormNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Get a submission
// @Tags         Submission
// @Produce      json
// @Param        id path string true "Submission id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/submissions/{id} [get]
func ApiGetSubmission(svc *submission.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, submission.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Open a checkout session
// @Description  Builds a provider checkout preference for a pending submission and returns the redirect URL.
// @Tags         Submission
// @Produce      json
// @Param        id path string true "Submission id"
// @Success      200  {object}  handlers.RespCheckout
// @Router       /api/v1/submissions/{id}/checkout [post]
func ApiCreateCheckout(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Create(c.Request.Context(), c.Param("id"))
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrSubmissionNotFound):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			case errors.Is(err, checkout.ErrNotPending),
				errors.Is(err, checkout.ErrAmountMismatch):
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			case errors.Is(err, credential.ErrNoAppURL), errors.Is(err, credential.ErrNoAccessToken):
				c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			default:
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// ApiScanSubmissions implements the admin listing with filters/pagination.
func ApiScanSubmissions(svc *submission.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submission.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterSubmissionRoutes(r gin.IRouter, subSvc *submission.Service, checkoutSvc *checkout.Service) {
	r.POST("/submissions", ApiCreateSubmission(subSvc))
	r.GET("/submissions/:id", ApiGetSubmission(subSvc))
	r.POST("/submissions/:id/checkout", ApiCreateCheckout(checkoutSvc))
}

func RegisterAdminSubmissionRoutes(r gin.IRouter, subSvc *submission.Service) {
	r.POST("/submissions/scan", ApiScanSubmissions(subSvc))
}
