package jsonrepair

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantKey string
		wantVal string
		wantErr bool
	}{
		{
			name:    "clean json",
			raw:     `{"topic": "the owl in the forest"}`,
			wantKey: "topic",
			wantVal: "the owl in the forest",
		},
		{
			name:    "fenced json",
			raw:     "```json\n{\"topic\": \"night flight\"}\n```",
			wantKey: "topic",
			wantVal: "night flight",
		},
		{
			name:    "fence without language tag",
			raw:     "```\n{\"topic\": \"falling\"}\n```",
			wantKey: "topic",
			wantVal: "falling",
		},
		{
			name:    "prose around the object",
			raw:     `Here is the structured result: {"topic": "deep water"} I hope this helps!`,
			wantKey: "topic",
			wantVal: "deep water",
		},
		{
			name:    "trailing comma",
			raw:     `{"topic": "the locked house",}`,
			wantKey: "topic",
			wantVal: "the locked house",
		},
		{
			name:    "single quoted key and value",
			raw:     `{'topic': 'the serpent sheds'}`,
			wantKey: "topic",
			wantVal: "the serpent sheds",
		},
		{
			name:    "unescaped quotes inside a value",
			raw:     `{"topic": "the voice said "wait" twice"}`,
			wantKey: "topic",
			wantVal: `the voice said "wait" twice`,
		},
		{
			name:    "empty input",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "no object at all",
			raw:     "I could not produce JSON this time, sorry.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.raw, obj)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
			}
			got, ok := obj[tt.wantKey].(string)
			if !ok {
				t.Fatalf("Parse(%q): key %q missing or not a string: %v", tt.raw, tt.wantKey, obj)
			}
			if got != tt.wantVal {
				t.Errorf("Parse(%q)[%q] = %q, want %q", tt.raw, tt.wantKey, got, tt.wantVal)
			}
		})
	}
}

func TestBraceSpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "nested objects stay balanced",
			in:   `prefix {"a": {"b": 1}} suffix`,
			want: `{"a": {"b": 1}}`,
		},
		{
			name: "braces inside strings ignored",
			in:   `x {"a": "value with } brace"} y`,
			want: `{"a": "value with } brace"}`,
		},
		{
			name: "unbalanced falls back to greedy span",
			in:   `{"a": {"b": 1}`,
			want: `{"a": {"b": 1}`,
		},
		{
			name: "no brace passes through",
			in:   "plain text",
			want: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BraceSpan(tt.in); got != tt.want {
				t.Errorf("BraceSpan(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
