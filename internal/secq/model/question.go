// Package model 定义问卷流水线的数据模型。
package model

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/kart-io/secq/pkg/utils/json"
)

// Question 表示问卷中的一条安全问题。
type Question struct {
	// ID 问题标识，保留原始 JSON（数字或字符串）。
	ID json.RawMessage `json:"id,omitempty"`
	// Text 问题正文。
	Text string `json:"text"`
	// Guidance 回答指引，可选。
	Guidance string `json:"guidance,omitempty"`
	// LLMResponse 模型生成的回答，由批处理写入。
	LLMResponse string `json:"llm_response"`
	// Valid 记录是否为包含字符串 text 的对象。
	Valid bool `json:"-"`
}

// ParseQuestion 解析问题集中的单个元素。
// 非对象、缺少 text 或 text 非字符串的元素返回 Valid=false 的记录，不返回错误。
func ParseQuestion(raw json.RawMessage) *Question {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return &Question{}
	}

	q := &Question{}
	if id, ok := fields["id"]; ok && !isNull(id) {
		q.ID = append(json.RawMessage(nil), id...)
	}
	if g, ok := fields["guidance"]; ok {
		var s string
		if json.Unmarshal(g, &s) == nil {
			q.Guidance = s
		}
	}

	text, ok := fields["text"]
	if !ok || isNull(text) {
		return q
	}
	var s string
	if err := json.Unmarshal(text, &s); err != nil {
		return q
	}
	q.Text = s
	q.Valid = true
	return q
}

// DisplayID 返回用于日志和报告的问题标识。字符串 id 去掉引号，缺失时为空。
func (q *Question) DisplayID() string {
	if len(q.ID) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(q.ID, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(q.ID))
}

// IDOrIndex 返回 DisplayID，缺失时使用从 1 开始的序号。
func (q *Question) IDOrIndex(i int) string {
	if id := q.DisplayID(); id != "" {
		return id
	}
	return "#" + strconv.Itoa(i+1)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
