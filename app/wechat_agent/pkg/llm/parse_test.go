package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", StripCodeFence("  plain "))
}

func TestParseJSONOutput(t *testing.T) {
	type summary struct {
		SolutionSummary string `json:"solution_summary"`
	}
	tests := []struct {
		name string
		in   string
	}{
		{"direct", `{"solution_summary":"ok"}`},
		{"json fence", "以下是结果：\n```json\n{\"solution_summary\":\"ok\"}\n```"},
		{"plain fence", "```\n{\"solution_summary\":\"ok\"}\n```"},
		{"braces", "结果 {\"solution_summary\":\"ok\"} 完毕"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s summary
			require.NoError(t, ParseJSONOutput(tt.in, &s))
			assert.Equal(t, "ok", s.SolutionSummary)
		})
	}

	var s summary
	assert.ErrorIs(t, ParseJSONOutput("没有 JSON", &s), ErrNoJSON)
}

func TestParseStringList(t *testing.T) {
	assert.Equal(t, []string{"图像识别", "目标检测"}, ParseStringList(`["图像识别", "目标检测"]`))
	assert.Equal(t, []string{"图像识别", "目标检测"}, ParseStringList(`关键词：['图像识别', '目标检测']`))
	assert.Nil(t, ParseStringList("图像识别，目标检测"))
}
