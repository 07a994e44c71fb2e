package request

// QueryRequest 知识库问答请求
type QueryRequest struct {
	Question string `json:"question" binding:"required"` // 用户问题（必填）
	TopK     int    `json:"top_k,omitempty"`             // 检索片段数，缺省用服务端配置（默认 5）
}
