// Package store 提供问卷流水线的上下文索引。
//
// 索引基于 chromem-go 内存向量库，每次运行只包含一个源文档，
// 构建完成后只读，供批处理中的每个问题检索上下文。
package store
