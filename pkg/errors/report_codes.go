package errors

// 报告流水线服务代码: 21 (业务服务范围 20-79)
// 错误码格式: AABBCCC
// - AA: 21 (report pipeline)
// - BB: 类别代码
// - CCC: 序号

func init() {
	RegisterService(ServiceCommon, "common")
	RegisterService(ServiceReport, "secq-report")
	RegisterService(ServiceLLM, "llm-provider")
}

var (
	// ErrConfigMissing 必需配置缺失 (ConfigError)。
	ErrConfigMissing = NewConfigError(ServiceReport, 1).
				Message("Required configuration missing", "缺少必需配置").MustBuild()

	// ErrConfigInvalid 配置值无效（选项校验失败）。
	ErrConfigInvalid = NewConfigError(ServiceReport, 2).
				Message("Invalid configuration", "配置无效").MustBuild()

	// ErrFileNotFound 输入文件不存在 (NotFound)。
	ErrFileNotFound = NewNotFoundError(ServiceReport, 1).
			Message("Required input file not found", "输入文件不存在").MustBuild()

	// ErrInvalidFormat 问题集文件格式错误 (InvalidFormat)。
	ErrInvalidFormat = NewRequestError(ServiceReport, 1).
				Message("Security questions file is not valid", "问题集文件格式无效").MustBuild()

	// ErrExtraction 文档文本提取失败 (ExtractionError)。
	ErrExtraction = NewInternalError(ServiceReport, 1).
			Exit(ExitIndex).
			Message("Failed to extract text from document", "文档文本提取失败").MustBuild()

	// ErrIndex 上下文索引构建或查询失败 (IndexError)。
	ErrIndex = NewInternalError(ServiceReport, 2).
			Exit(ExitIndex).
			Message("Failed to build context index", "上下文索引构建失败").MustBuild()

	// ErrRender 报告渲染失败。
	ErrRender = NewInternalError(ServiceReport, 3).
			Message("Failed to render report", "报告渲染失败").MustBuild()

	// ErrReportWrite 报告写入失败。
	ErrReportWrite = NewInternalError(ServiceReport, 4).
			Message("Failed to write report", "报告写入失败").MustBuild()

	// ErrGeneration 模型调用失败 (GenerationError)，包括超时、远端错误、空响应。
	ErrGeneration = NewNetworkError(ServiceLLM, 1).
			Message("Failed to get response from LLM", "获取 LLM 响应失败").MustBuild()
)
