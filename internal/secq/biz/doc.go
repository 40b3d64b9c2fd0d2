// Package biz 提供问卷流水线的业务逻辑层。
//
// 该包将一次运行拆分为以下组件：
//   - Ingestor: 提取源文档文本
//   - BuildPrompt: 用固定模板组合上下文与问题
//   - Generator: 调用生成模型并归一化错误
//   - Runner: 逐条回答问题，以及模板中的风险概览请求
//   - LoadQuestions: 读取问题集文件
package biz
