package http

import (
	ragRequest "WebMind/internal/modules/rag/application/dto/request"
	"WebMind/internal/modules/rag/application/service"
	"WebMind/pkg/back"
	"WebMind/pkg/xerr"
	"WebMind/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderHandler 生成后端管理 HTTP Handler
type ProviderHandler struct {
	providerSvc service.ProviderService
}

func NewProviderHandler(providerSvc service.ProviderService) *ProviderHandler {
	return &ProviderHandler{providerSvc: providerSvc}
}

// Current 查看当前生效的生成后端
//
// 路由: GET /provider
// 响应体: ProviderRespond
func (h *ProviderHandler) Current(c *gin.Context) {
	data, err := h.providerSvc.Current(c.Request.Context())
	back.Result(c, data, mapDomainError(err))
}

// Switch 切换生成后端
//
// 路由: POST /provider/switch
// 请求体: SwitchProviderRequest
// 响应体: ProviderRespond
func (h *ProviderHandler) Switch(c *gin.Context) {
	var req ragRequest.SwitchProviderRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.providerSvc.Switch(c.Request.Context(), req)
	if err != nil {
		zlog.Warn("switch provider failed", zap.String("provider", req.Provider), zap.Error(err))
	}
	back.Result(c, data, mapDomainError(err))
}
