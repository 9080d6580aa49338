package response

import "github.com/gin-gonic/gin"

// ErrorBody is the error shape of every endpoint: {"detail": "..."}.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Detail writes an error response with the given status and detail message.
func Detail(c *gin.Context, httpStatus int, detail string) {
	c.JSON(httpStatus, ErrorBody{Detail: detail})
}

// OK writes payload with status 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(200, payload)
}
