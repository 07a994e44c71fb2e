package respond

// DocumentItem 文档状态视图
type DocumentItem struct {
	DocID        string `json:"doc_id"`
	Url          string `json:"url"`
	Title        string `json:"title,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"` // 仅 failed 状态携带
	ChunkCount   int    `json:"chunk_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// IngestAccepted 提交摄取后的回执
type IngestAccepted struct {
	DocID   string `json:"doc_id"`
	Url     string `json:"url"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DocumentListRespond 文档列表
type DocumentListRespond struct {
	Total int64          `json:"total"`
	Items []DocumentItem `json:"items"`
}
