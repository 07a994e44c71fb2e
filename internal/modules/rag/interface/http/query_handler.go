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

// QueryHandler 知识库问答 HTTP Handler
type QueryHandler struct {
	querySvc service.QueryService
}

func NewQueryHandler(querySvc service.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// Query 知识库问答
//
// 路由: POST /query
// 请求体: QueryRequest
// 响应体: QueryRespond
func (h *QueryHandler) Query(c *gin.Context) {
	var req ragRequest.QueryRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.querySvc.Query(c.Request.Context(), req)
	if err != nil {
		zlog.Warn("query failed", zap.Error(err))
	}
	back.Result(c, data, mapDomainError(err))
}
