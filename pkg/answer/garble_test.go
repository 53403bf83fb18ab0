package answer

import (
	"strings"
	"testing"
)

func TestIsGarbled(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{
			name: "repeated fullwidth commas",
			line: strings.Repeat("，", 6),
			want: true,
		},
		{
			name: "normal CJK sentence",
			line: "检索增强生成是一种结合检索与生成的问答技术。",
			want: false,
		},
		{
			name: "short line never flagged",
			line: "：：：：",
			want: false,
		},
		{
			name: "latin-1 mojibake residue",
			line: "Ã©Ã¨Ã§Ã«Ã¯Ã¶Ã¼Ã±",
			want: true,
		},
		{
			name: "replacement glyph burst",
			line: "document �� text here",
			want: true,
		},
		{
			name: "punctuation drowning out content",
			line: "a-b*c~|/\\.,;:·",
			want: true,
		},
		{
			name: "separator run",
			line: "段落----分隔内容",
			want: true,
		},
		{
			name: "normal english sentence",
			line: "Hybrid retrieval mixes BM25 and dense vectors.",
			want: false,
		},
		{
			name: "mixed CJK with light punctuation",
			line: "第一步：准备语料，然后建立索引。",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGarbled(tt.line); got != tt.want {
				t.Errorf("IsGarbled(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
