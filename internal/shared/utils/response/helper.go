package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	body := StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	}
	if status == "error" {
		body.Error = message
	}
	c.JSON(code, body)
}

// RespondError writes an error envelope and aborts the handler chain
func RespondError(c *gin.Context, code int, message string, details interface{}) {
	RespondJSON(c, "error", code, message, nil, details)
	c.Abort()
}
