package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/secq/internal/secq/model"
	"github.com/kart-io/secq/pkg/infra/tracing"
	"github.com/kart-io/secq/pkg/utils/json"
)

// RiskOverviewPrefix 风险概览请求的显示前缀。
const RiskOverviewPrefix = "Risk Overview Request: "

// riskOverviewID 风险概览记录的 ID。
var riskOverviewID = json.RawMessage(`"risk_overview"`)

// RiskOverview 将模板中提取的请求文本作为额外问题回答。
// 结果只写入新建的记录，不会修改批处理中的任何问题。
func (r *Runner) RiskOverview(ctx context.Context, index Retriever, request string) *model.Question {
	ctx, span := tracing.StartSpan(ctx, tracing.SpanRiskOverview)
	defer span.End()

	request = strings.TrimSpace(request)
	q := &model.Question{
		ID:    riskOverviewID,
		Text:  RiskOverviewPrefix + request,
		Valid: request != "",
	}

	if request == "" {
		logger.Warn("Risk overview request not found in template")
		q.LLMResponse = NoRequestResponse
		tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrOutcome, outcomeInvalid))
		return q
	}

	answer, err := r.Answer(ctx, index, q.Text)
	if err != nil {
		logger.Errorw("Failed to get LLM response", "question_id", "risk_overview", "error", err.Error())
		q.LLMResponse = ErrorResponse
		tracing.RecordError(ctx, err)
		tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrOutcome, outcomeError))
		return q
	}

	q.LLMResponse = answer
	tracing.AddSpanAttributes(ctx, tracing.String(tracing.AttrOutcome, outcomeAnswered))
	logger.Info("Risk overview response added")
	return q
}
