package rag

import "strings"

// ProviderKind 生成后端类型（封闭集合）
type ProviderKind string

const (
	ProviderKindOllama ProviderKind = "ollama"
	ProviderKindOpenAI ProviderKind = "openai"
	ProviderKindArk    ProviderKind = "ark"
)

func ParseProviderKind(s string) (ProviderKind, bool) {
	switch ProviderKind(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderKindOllama:
		return ProviderKindOllama, true
	case ProviderKindOpenAI:
		return ProviderKindOpenAI, true
	case ProviderKindArk:
		return ProviderKindArk, true
	}
	return "", false
}

// RequiresAPIKey 托管后端必须携带凭证
func (k ProviderKind) RequiresAPIKey() bool {
	return k == ProviderKindOpenAI || k == ProviderKindArk
}

// ProviderConfig 进程外共享的生成后端配置
//
// 默认值来自静态配置；管理接口可随时覆盖。读取方每次使用都必须重新解析，
// 因为其他进程实例可能已经修改过它（last-writer-wins）。
type ProviderConfig struct {
	Kind        ProviderKind `json:"kind"`
	Model       string       `json:"model"`
	BaseURL     string       `json:"base_url,omitempty"`
	APIKey      string       `json:"api_key,omitempty"`
	Temperature float32      `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

// Validate 校验后端必填参数：model 恒为必填，托管后端还需要 api_key
func (c *ProviderConfig) Validate() error {
	if c == nil {
		return NewError(ErrKindConfiguration, "provider config is nil")
	}
	if _, ok := ParseProviderKind(string(c.Kind)); !ok {
		return NewErrorf(ErrKindConfiguration, "unknown provider kind: %q", c.Kind)
	}
	if strings.TrimSpace(c.Model) == "" {
		return NewErrorf(ErrKindConfiguration, "provider %s missing model", c.Kind)
	}
	if c.Kind.RequiresAPIKey() && strings.TrimSpace(c.APIKey) == "" {
		return NewErrorf(ErrKindConfiguration, "provider %s missing api key", c.Kind)
	}
	return nil
}

// Fingerprint 配置指纹，用于判断缓存的 provider 实例是否需要重建
func (c *ProviderConfig) Fingerprint() string {
	if c == nil {
		return ""
	}
	return strings.Join([]string{string(c.Kind), c.Model, c.BaseURL, c.APIKey}, "|")
}
