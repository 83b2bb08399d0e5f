package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Message reports success with a user-facing message and no data payload
// (OTP sent, booking accepted, and similar confirmations).
func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"message": message,
	})
}

// Domain reports an application-level failure: HTTP 200 with success=false
// and a message the client shows verbatim. Transport-level errors use Error.
func Domain(c *gin.Context, message string) {
	c.JSON(200, gin.H{
		"success": false,
		"message": message,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
