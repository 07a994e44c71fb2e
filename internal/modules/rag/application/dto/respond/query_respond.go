package respond

// QuerySourceItem 回答引用的单个来源片段
type QuerySourceItem struct {
	DocID      string  `json:"doc_id"`
	Url        string  `json:"url"`
	Title      string  `json:"title,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
	Preview    string  `json:"preview"` // 片段预览（最多 200 字符）
}

// QueryRespond 知识库问答响应
type QueryRespond struct {
	Answer   string            `json:"answer"`
	Sources  []QuerySourceItem `json:"sources"`
	Provider string            `json:"provider"` // 生成本次回答的后端类型
	Model    string            `json:"model"`
}
