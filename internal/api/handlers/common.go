package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/api/middleware"
	"github.com/yoockh/placementcell/internal/utils"
)

type APIError struct {
	Code    utils.Code        `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if status >= http.StatusInternalServerError {
			// Internal detail stays in the log line.
			_ = c.Error(err)
			msg = http.StatusText(status)
		}
		c.JSON(status, APIError{Code: ae.Code, Message: msg, Fields: ae.Fields})
		return
	}

	_ = c.Error(err)
	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get(middleware.CtxUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

type validator interface {
	Validate() error
}

// bindJSON decodes the body into req and runs its Validate.
func bindJSON(c *gin.Context, op string, req validator) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return false
	}
	if err := req.Validate(); err != nil {
		var ae *utils.AppError
		if errors.As(err, &ae) && ae.Op == "" {
			ae.Op = op
		}
		writeError(c, err)
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, utils.Invalid("", "invalid query", map[string]string{key: "must be a non-negative integer"})
	}
	return n, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, utils.Invalid("", "invalid query", map[string]string{key: "must be true or false"})
	}
	return &b, nil
}
