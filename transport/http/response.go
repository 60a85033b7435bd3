package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/errors"
)

const defaultSuccessMsg = "success"

// Response is the standard API envelope. The code mirrors the HTTP status.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

// GinJSON writes a successful JSON response with HTTP status 200.
func GinJSON(c *gin.Context, data any) {
	GinJSONS(c, http.StatusOK, data)
}

// GinJSONS writes a successful JSON response with the given HTTP status.
func GinJSONS(c *gin.Context, status int, data any) {
	if c == nil {
		return
	}

	c.JSON(status, &Response{
		Code: status,
		Msg:  defaultSuccessMsg,
		Data: data,
	})
}

// GinJSONE writes an error response. The HTTP status and the envelope code
// come from the structured error; anything that is not an *errors.Error maps
// to 500 with a generic message, so internal detail never reaches the
// client.
func GinJSONE(c *gin.Context, err error) {
	if c == nil {
		return
	}

	defer c.Abort()

	e := errors.FromError(err)
	if e == nil {
		e = errors.Internal("internal server error")
	}

	c.JSON(e.Code, &Response{
		Code: e.Code,
		Msg:  e.Message,
	})
}
