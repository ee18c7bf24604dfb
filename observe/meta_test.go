package observe

import (
	"errors"
	"testing"
)

func TestCallMeta_Names(t *testing.T) {
	tests := []struct {
		meta     CallMeta
		wantSpan string
		wantID   string
	}{
		{CallMeta{Kind: KindSearch, Name: "openalex"}, "ragteam.search.openalex", "search.openalex"},
		{CallMeta{Kind: KindAgent, Name: "Research Agent", Model: "gpt-4o-mini"}, "ragteam.agent.Research Agent", "agent.Research Agent"},
		{CallMeta{Kind: KindStage, Name: "report"}, "ragteam.stage.report", "stage.report"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.wantSpan {
			t.Errorf("SpanName() = %q, want %q", got, tt.wantSpan)
		}
		if got := tt.meta.ID(); got != tt.wantID {
			t.Errorf("ID() = %q, want %q", got, tt.wantID)
		}
	}
}

func TestCallMeta_Validate(t *testing.T) {
	tests := []struct {
		name    string
		meta    CallMeta
		wantErr error
	}{
		{"valid", CallMeta{Kind: KindSearch, Name: "crossref"}, nil},
		{"missing name", CallMeta{Kind: KindStage}, ErrMissingCallName},
		{"missing kind", CallMeta{Name: "x"}, ErrInvalidCallKind},
		{"unknown kind", CallMeta{Kind: "tool", Name: "x"}, ErrInvalidCallKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.meta.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
