package request

// IngestURLRequest 提交网页摄取请求
type IngestURLRequest struct {
	Url string `json:"url" binding:"required"` // 网页地址（必填，http/https）
}

// ListDocumentsRequest 文档列表查询参数
type ListDocumentsRequest struct {
	Status string `form:"status"` // 状态过滤（pending/processing/completed/failed），空表示全部
	Limit  int    `form:"limit"`  // 每页条数（默认 10，上限 100）
	Offset int    `form:"offset"` // 偏移量
}
