package respond

// ProviderRespond 当前生效的生成后端；api_key 不回显，只给有无标识
type ProviderRespond struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	BaseURL     string  `json:"base_url,omitempty"`
	HasAPIKey   bool    `json:"has_api_key"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}
