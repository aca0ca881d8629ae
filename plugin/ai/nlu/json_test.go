package nlu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "plain object",
			content: `{"enhanced_query": "electricity bill"}`,
			want:    `{"enhanced_query": "electricity bill"}`,
		},
		{
			name:    "fenced json block",
			content: "```json\n{\"intents\": [\"find\"]}\n```",
			want:    `{"intents": ["find"]}`,
		},
		{
			name:    "surrounding prose",
			content: `Sure! Here is the analysis: {"filters": {"category": "bills"}} Hope that helps.`,
			want:    `{"filters": {"category": "bills"}}`,
		},
		{
			name:    "braces inside strings",
			content: `{"enhanced_query": "find {weird} notes"}`,
			want:    `{"enhanced_query": "find {weird} notes"}`,
		},
		{
			name:    "no object",
			content: "I could not analyze that query.",
			wantErr: true,
		},
		{
			name:    "unbalanced object",
			content: `{"enhanced_query": "oops"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
