package errors

// ErrInternal wraps errors that carry no Errno of their own.
var ErrInternal = Register(&Errno{
	Code:      MakeCode(ServiceCommon, CategoryInternal, 0),
	Exit:      ExitFailure,
	MessageEN: "Internal error",
	MessageZH: "内部错误",
})
