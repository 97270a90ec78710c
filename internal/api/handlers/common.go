package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnect/backend/internal/utils"
)

type APIError struct {
	Code    utils.Code         `json:"code"`
	Message string             `json:"message"`
	Errors  []utils.FieldError `json:"errors,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
			Errors:  ae.Fields,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// requireUserID reads the verified user id the auth middleware stored and
// parses it into an ObjectID.
func requireUserID(c *gin.Context) (primitive.ObjectID, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			id, err := primitive.ObjectIDFromHex(s)
			if err == nil {
				return id, true
			}
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return primitive.NilObjectID, false
}
