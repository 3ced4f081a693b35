package types

// BindStatus bindListen 的返回码
//
// 取值与 POSIX errno 约定一致，方便调用方按返回码分支，
// 不依赖宿主平台的 errno 编号。
type BindStatus int

const (
	// BindOK 绑定并监听成功
	BindOK BindStatus = 0

	// BindBadState socket 已关闭（EBADFD）
	BindBadState BindStatus = 77

	// BindAddressInUse 绑定或监听失败（EADDRINUSE）
	BindAddressInUse BindStatus = 98
)

// String 返回状态名称
func (s BindStatus) String() string {
	switch s {
	case BindOK:
		return "ok"
	case BindBadState:
		return "bad-state"
	case BindAddressInUse:
		return "address-in-use"
	default:
		return "unknown"
	}
}

// OK 检查是否成功
func (s BindStatus) OK() bool {
	return s == BindOK
}
