package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/pkg/apperror"
	"github.com/centek/clinic-api/pkg/auth"
)

// Context keys set by the auth middleware.
const (
	CtxUser   = "user"
	CtxClaims = "claims"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error writes the response for a service error. Unclassified errors
// are logged and answered as 500 without leaking detail.
func Error(c *gin.Context, err error) {
	appErr := apperror.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}

// ParseID reads an integer path parameter, answering 400 itself when
// the value is malformed.
func ParseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+param))
		return 0, false
	}
	return id, true
}

// ParseQueryID reads an integer query parameter.
func ParseQueryID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+param))
		return 0, false
	}
	return id, true
}

// CurrentUser returns the authenticated doctor set by the auth
// middleware.
func CurrentUser(c *gin.Context) *model.User {
	user, _ := c.MustGet(CtxUser).(*model.User)
	return user
}

// CurrentClaims returns the validated token claims.
func CurrentClaims(c *gin.Context) *auth.Claims {
	claims, _ := c.MustGet(CtxClaims).(*auth.Claims)
	return claims
}
