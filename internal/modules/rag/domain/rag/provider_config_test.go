package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProviderKind(t *testing.T) {
	for in, want := range map[string]ProviderKind{
		"ollama":  ProviderKindOllama,
		"OpenAI":  ProviderKindOpenAI,
		" ark ":   ProviderKindArk,
		"OLLAMA ": ProviderKindOllama,
	} {
		got, ok := ParseProviderKind(in)
		require.True(t, ok, "input: %q", in)
		require.Equal(t, want, got)
	}

	// 封闭集合：未登记的后端一律拒绝
	for _, in := range []string{"gemini", "claude", "", "local"} {
		_, ok := ParseProviderKind(in)
		require.False(t, ok, "input: %q", in)
	}
}

func TestProviderConfigValidate(t *testing.T) {
	require.NoError(t, (&ProviderConfig{Kind: ProviderKindOllama, Model: "llama2"}).Validate())
	require.NoError(t, (&ProviderConfig{Kind: ProviderKindOpenAI, Model: "gpt-4o-mini", APIKey: "sk-x"}).Validate())

	err := (&ProviderConfig{Kind: ProviderKindOllama}).Validate()
	require.True(t, IsKind(err, ErrKindConfiguration))

	// 托管后端必须携带凭证；本地后端不需要
	err = (&ProviderConfig{Kind: ProviderKindOpenAI, Model: "gpt-4o-mini"}).Validate()
	require.True(t, IsKind(err, ErrKindConfiguration))
	err = (&ProviderConfig{Kind: ProviderKindArk, Model: "doubao-pro"}).Validate()
	require.True(t, IsKind(err, ErrKindConfiguration))

	err = (&ProviderConfig{Kind: "gemini", Model: "g"}).Validate()
	require.True(t, IsKind(err, ErrKindConfiguration))

	var nilCfg *ProviderConfig
	require.Error(t, nilCfg.Validate())
}

func TestProviderConfigFingerprint(t *testing.T) {
	a := &ProviderConfig{Kind: ProviderKindOllama, Model: "llama2", BaseURL: "http://localhost:11434"}
	b := &ProviderConfig{Kind: ProviderKindOllama, Model: "llama2", BaseURL: "http://localhost:11434"}
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := &ProviderConfig{Kind: ProviderKindOllama, Model: "llama3", BaseURL: "http://localhost:11434"}
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	// 温度等生成参数不参与指纹：实例无需重建
	d := &ProviderConfig{Kind: ProviderKindOllama, Model: "llama2", BaseURL: "http://localhost:11434", Temperature: 0.2}
	require.Equal(t, a.Fingerprint(), d.Fingerprint())
}
