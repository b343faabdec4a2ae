package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/credscore/internal/application/dto"
	"github.com/turtacn/credscore/internal/application/service"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/logger"
)

// CreditHandler serves credit scoring requests.
type CreditHandler struct {
	scoring service.ScoringAppService
	log     logger.Logger
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(scoring service.ScoringAppService, log logger.Logger) *CreditHandler {
	useJSONFieldNames()
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &CreditHandler{scoring: scoring, log: log.WithComponent("credit_handler")}
}

// Score godoc
// @Summary      Score a credit application
// @Tags         credit
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CreditScoreRequest  true  "Applicant features"
// @Success      200      {object}  dto.CreditScoreResponse
// @Failure      400      {object}  dto.RejectionResponse
// @Failure      422      {object}  dto.SchemaErrorResponse
// @Failure      503      {object}  dto.DetailResponse
// @Router       /credit/score [post]
func (h *CreditHandler) Score(c *gin.Context) {
	var req dto.CreditScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug(c.Request.Context(), "Rejected malformed scoring request", logger.Err(err))
		c.JSON(http.StatusUnprocessableEntity, dto.SchemaErrorResponse{Detail: schemaErrors(err)})
		return
	}

	meta := dto.RequestMeta{
		ClientIP:  c.ClientIP(),
		RequestID: c.GetString(string(constants.ContextKeyRequestID)),
	}

	resp, err := h.scoring.Score(c.Request.Context(), &req, meta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
