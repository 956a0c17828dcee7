package rag

import "testing"

func TestIsComplex(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     bool
	}{
		{name: "short lookup", question: "What is the deadline?", want: false},
		{name: "keyword compare", question: "Compare the two plans", want: true},
		{name: "keyword analyze", question: "Analyze the results", want: true},
		{name: "keyword explain", question: "Explain the architecture", want: true},
		{name: "keyword detailed", question: "Give a detailed summary", want: true},
		{name: "keyword comprehensive", question: "A comprehensive overview please", want: true},
		{name: "keyword case insensitive", question: "EXPLAIN this", want: true},
		{
			name:     "long question without keywords",
			question: "What did the report say about the budget for the next fiscal year period?",
			want:     true,
		},
		{name: "exactly ten words", question: "one two three four five six seven eight nine ten", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isComplex(tt.question); got != tt.want {
				t.Errorf("isComplex(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}
