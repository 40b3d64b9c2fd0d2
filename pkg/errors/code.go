package errors

// Service codes (AA)
const (
	// ServiceCommon is for common/base errors shared by all stages.
	ServiceCommon = 0

	// ServiceReport is for the security questionnaire report pipeline.
	ServiceReport = 21

	// ServiceLLM is for generative model providers.
	ServiceLLM = 90
)

// Category codes (BB)
const (
	// CategoryRequest indicates request/validation errors.
	CategoryRequest = 1

	// CategoryResource indicates resource not found errors.
	CategoryResource = 4

	// CategoryInternal indicates internal errors.
	CategoryInternal = 7

	// CategoryNetwork indicates network errors.
	CategoryNetwork = 10

	// CategoryConfig indicates configuration errors.
	CategoryConfig = 12
)

// MakeCode creates an error code from service, category, and sequence.
// Format: AABBCCC where AA=service, BB=category, CCC=sequence
func MakeCode(service, category, sequence int) int {
	return service*100000 + category*1000 + sequence
}
