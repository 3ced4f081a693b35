package interfaces

import (
	"context"
	"io"
	"time"

	"github.com/dep2p/go-rfcomm/pkg/types"
)

// RfcommHandle RFCOMM 传输句柄能力
//
// 句柄对应一个平台传输对象。阻塞调用（Connect/Accept）必须在
// Shutdown 或 Destroy 之后尽快返回，socket 的 close 依赖这一点
// 来打断进行中的阻塞调用。
type RfcommHandle interface {
	// Create 初始化底层传输对象
	Create() error

	// Connect 阻塞连接到远端设备的指定信道
	Connect(ctx context.Context, addr types.Address, ch types.Channel) error

	// Bind 绑定本地信道，AnyChannel 表示任选空闲信道
	Bind(ch types.Channel) error

	// Listen 开始监听，backlog < 0 表示使用默认值
	Listen(backlog int) error

	// Accept 在 timeout 内等待一个入站连接并绑定到 child
	//
	// 返回 false 且 err 为 nil 表示超时未收到连接。
	Accept(ctx context.Context, child RfcommHandle, timeout time.Duration) (bool, error)

	// ShutdownInput 关闭输入半连接
	ShutdownInput() error

	// ShutdownOutput 关闭输出半连接
	ShutdownOutput() error

	// Shutdown 关闭整个信道，打断所有阻塞调用
	Shutdown() error

	// Destroy 释放底层资源，之后不得再调用任何方法
	Destroy()

	// IsConnected 检查是否已连接
	IsConnected() bool

	// InputStream 返回输入流，连接建立前读取会失败
	InputStream() (io.ReadCloser, error)

	// OutputStream 返回输出流，连接建立前写入会失败
	OutputStream() (io.WriteCloser, error)

	// PeerAddress 返回对端地址，能力缺失时返回 false
	PeerAddress() (types.Address, bool)
}

// Transport 传输句柄工厂
type Transport interface {
	// Open 创建一个新的、相互独立的传输句柄
	Open() (RfcommHandle, error)
}

// TransportFunc 函数形式的 Transport
type TransportFunc func() (RfcommHandle, error)

// Open 实现 Transport 接口
func (f TransportFunc) Open() (RfcommHandle, error) {
	return f()
}
