package delegate

import "fmt"

// Status 委托调用的结果状态
type Status int

const (
	// StatusUnsupported 底层没有此能力
	StatusUnsupported Status = iota
	// StatusSucceeded 调用成功
	StatusSucceeded
	// StatusFailed 调用失败
	StatusFailed
)

// String 返回状态名
func (s Status) String() string {
	switch s {
	case StatusUnsupported:
		return "unsupported"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result 委托调用结果
type Result struct {
	Status Status
	Value  any
	Err    error
}

// Unsupported 是否为能力缺失
func (r Result) Unsupported() bool {
	return r.Status == StatusUnsupported
}

// OK 是否调用成功
func (r Result) OK() bool {
	return r.Status == StatusSucceeded
}

// Error 把结果转换为错误
//
// Unsupported 转为 ErrUnsupported，Succeeded 返回 nil。
func (r Result) Error() error {
	switch r.Status {
	case StatusSucceeded:
		return nil
	case StatusFailed:
		return r.Err
	default:
		return ErrUnsupported
	}
}

// As 以类型 T 读取返回值
func As[T any](r Result) (T, bool) {
	var zero T
	if r.Status != StatusSucceeded {
		return zero, false
	}
	v, ok := r.Value.(T)
	return v, ok
}
