package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		content string
		wantErr bool
	}{
		{"nil schema accepts text", nil, "plain words", false},
		{"valid", answerSchema, `{"answer": 3}`, false},
		{"not json", answerSchema, `answer: 3`, true},
		{"wrong type", answerSchema, `{"answer": "3"}`, true},
		{"missing field", answerSchema, `{}`, true},
		{"extra field", answerSchema, `{"answer": 1, "why": "x"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.content))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.content, string(inv.Content))
		})
	}
}

func TestValidateCachesCompiledSchema(t *testing.T) {
	s := &Schema{Name: "cache-check", Definition: map[string]any{"type": "array", "maxItems": 1}}
	assert.NoError(t, validateResponse(s, json.RawMessage(`[1]`)))
	_, ok := compiled.Load("cache-check")
	assert.True(t, ok)
	assert.Error(t, validateResponse(s, json.RawMessage(`[1, 2]`)))
}
