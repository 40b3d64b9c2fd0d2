package biz

import "strings"

const (
	promptHeader = "Answer the following security question using the provided context. " +
		"Your answer should be concise and based on the context.\n\nContext: "
	promptQuestion = "\n\nSecurity Question: "
	promptFooter   = "\n\nAnswer:"
)

// BuildPrompt 用固定模板组合上下文与问题。
// 替换是单次按位置拼接的，context 或 question 中的 {、} 以及 {context} 等占位符按原样保留。
func BuildPrompt(context, question string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(context) + len(promptQuestion) + len(question) + len(promptFooter))
	b.WriteString(promptHeader)
	b.WriteString(context)
	b.WriteString(promptQuestion)
	b.WriteString(question)
	b.WriteString(promptFooter)
	return b.String()
}
