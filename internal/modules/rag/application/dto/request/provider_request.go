package request

// SwitchProviderRequest 切换生成后端请求
type SwitchProviderRequest struct {
	Provider    string  `json:"provider" binding:"required"` // 后端类型：ollama / openai / ark
	Model       string  `json:"model" binding:"required"`    // 模型名（必填）
	BaseURL     string  `json:"base_url,omitempty"`          // 服务地址（ollama 默认本机）
	APIKey      string  `json:"api_key,omitempty"`           // 托管后端凭证
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}
