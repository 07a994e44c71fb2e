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

// IngestHandler 网页摄取 HTTP Handler
type IngestHandler struct {
	ingestSvc service.IngestService
}

func NewIngestHandler(ingestSvc service.IngestService) *IngestHandler {
	return &IngestHandler{ingestSvc: ingestSvc}
}

// SubmitURL 提交网页摄取
//
// 路由: POST /ingest-url
// 请求体: IngestURLRequest
// 响应体: IngestAccepted
func (h *IngestHandler) SubmitURL(c *gin.Context) {
	var req ragRequest.IngestURLRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.ingestSvc.SubmitURL(c.Request.Context(), req)
	if err != nil {
		zlog.Warn("submit url failed", zap.String("url", req.Url), zap.Error(err))
	}
	back.Result(c, data, mapDomainError(err))
}

// GetStatus 查询文档状态
//
// 路由: GET /status/:doc_id
// 响应体: DocumentItem
func (h *IngestHandler) GetStatus(c *gin.Context) {
	docID := c.Param("doc_id")

	data, err := h.ingestSvc.GetStatus(c.Request.Context(), docID)
	back.Result(c, data, mapDomainError(err))
}

// ListDocuments 分页列出文档
//
// 路由: GET /documents?status=&limit=&offset=
// 响应体: DocumentListRespond
func (h *IngestHandler) ListDocuments(c *gin.Context) {
	var req ragRequest.ListDocumentsRequest
	if err := c.BindQuery(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.ingestSvc.ListDocuments(c.Request.Context(), req)
	back.Result(c, data, mapDomainError(err))
}
