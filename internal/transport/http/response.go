package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构。
// 所有表单端点都返回同一个信封：成功 200 / 投递失败 500 /
// 严格校验拒绝 400，均为 {success, message}。
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK 成功响应（200）
func OK(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: msg,
	})
}

// BadRequest 请求被拒绝（400）：请求体不合法或严格校验未通过
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: msg,
	})
}

// DeliveryFailed 投递失败（500）。
// 失败原因只记录在服务端日志，响应体保持通用消息。
func DeliveryFailed(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{
		Success: false,
		Message: msg,
	})
}
