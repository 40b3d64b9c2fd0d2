package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/secq/internal/secq/model"
)

func TestRiskOverview(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		gen      Answerer
		wantText string
		wantResp string
	}{
		{
			name:     "answered",
			request:  "Summarise the key risks.",
			gen:      &fakeAnswerer{},
			wantText: "Risk Overview Request: Summarise the key risks.",
			wantResp: "answer to Risk Overview Request: Summarise the key risks.",
		},
		{
			name:     "no request",
			request:  "   ",
			gen:      &fakeAnswerer{},
			wantText: "Risk Overview Request: ",
			wantResp: NoRequestResponse,
		},
		{
			name:     "generation failure",
			request:  "Summarise",
			gen:      &fakeAnswerer{failOn: "Summarise"},
			wantText: "Risk Overview Request: Summarise",
			wantResp: ErrorResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(t, tt.gen, 1)
			q := r.RiskOverview(context.Background(), &fakeIndex{docs: []string{"ctx"}}, tt.request)
			assert.Equal(t, tt.wantText, q.Text)
			assert.Equal(t, tt.wantResp, q.LLMResponse)
			assert.Equal(t, "risk_overview", q.DisplayID())
		})
	}
}

func TestRiskOverviewDoesNotTouchBatch(t *testing.T) {
	r := newTestRunner(t, &fakeAnswerer{failOn: "Risk"}, 1)
	batch := []*model.Question{{Text: "q", Valid: true, LLMResponse: "answer"}}

	_ = r.RiskOverview(context.Background(), &fakeIndex{}, "Risk request")

	assert.Equal(t, "answer", batch[0].LLMResponse)
}
