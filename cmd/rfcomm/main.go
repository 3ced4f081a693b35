// Package main 提供 rfcomm 命令行演示
//
// 在内存 hub 上启动一个 SPP 回显服务端和一个客户端：客户端经服务发现
// 解析信道后连接，发送消息并校验回显。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-rfcomm"
	"github.com/dep2p/go-rfcomm/internal/core/transport/memory"
	"github.com/dep2p/go-rfcomm/internal/util/logger"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
)

var clog = log.Logger("rfcomm/cmd")

var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	timeout     = flag.Duration("timeout", 5*time.Second, "accept 超时（<=0 表示无限等待）")
	delegated   = flag.Bool("delegated", false, "使用委托传输")
	message     = flag.String("message", "hello rfcomm", "发送的消息")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

var (
	serverAddr = rfcomm.MustParseAddress("00:1A:7D:DA:71:01")
	clientAddr = rfcomm.MustParseAddress("00:1A:7D:DA:71:02")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(rfcomm.VersionInfo())
		return nil
	}

	logger.Install(os.Stderr, logger.ConfigFromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := memory.NewHub()
	opts := []rfcomm.Option{rfcomm.WithDirectory(hub), rfcomm.WithDelegation(*delegated)}
	if *configFile != "" {
		opts = append([]rfcomm.Option{rfcomm.WithConfigFile(*configFile)}, opts...)
	}
	opts = opts[:len(opts):len(opts)]

	server, err := rfcomm.New(append(opts, rfcomm.WithSource(hub.Device(serverAddr)))...)
	if err != nil {
		return fmt.Errorf("启动服务端失败: %w", err)
	}
	defer func() { _ = server.Close() }()

	client, err := rfcomm.New(append(opts, rfcomm.WithSource(hub.Device(clientAddr)))...)
	if err != nil {
		return fmt.Errorf("启动客户端失败: %w", err)
	}
	defer func() { _ = client.Close() }()

	// 信道取配置文件中的 listen_channel
	ln, err := server.Listen(rfcomm.AnyChannel)
	if err != nil {
		return err
	}
	if err := hub.RegisterService(serverAddr, rfcomm.SerialPortServiceID, ln.Channel()); err != nil {
		return err
	}
	clog.Info("服务端已监听", "addr", serverAddr, "channel", ln.Channel())

	wait := *timeout
	if wait <= 0 {
		wait = rfcomm.Infinite
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveEcho(gctx, ln, wait)
	})
	g.Go(func() error {
		return sendAndVerify(gctx, client, []byte(*message))
	})
	return g.Wait()
}

// serveEcho 接受一个连接并原样回写
func serveEcho(ctx context.Context, ln *rfcomm.Socket, wait time.Duration) error {
	child, err := ln.Accept(ctx, wait)
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	if child == nil {
		return rfcomm.ErrSocketClosed
	}
	defer func() { _ = child.Close() }()
	clog.Info("接受连接", "remote", child.RemoteDevice())

	in, err := child.InputStream()
	if err != nil {
		return err
	}
	out, err := child.OutputStream()
	if err != nil {
		return err
	}
	_, err = io.CopyN(out, in, int64(len(*message)))
	return err
}

// sendAndVerify 通过服务发现连接服务端并校验回显
func sendAndVerify(ctx context.Context, client *rfcomm.Stack, msg []byte) error {
	id := rfcomm.SerialPortServiceID
	sock, err := client.NewSocket(serverAddr, &id)
	if err != nil {
		return err
	}
	defer func() { _ = sock.Close() }()

	if err := sock.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	clog.Info("已连接", "remote", sock.RemoteDevice(), "channel", sock.Channel())

	out, err := sock.OutputStream()
	if err != nil {
		return err
	}
	in, err := sock.InputStream()
	if err != nil {
		return err
	}
	if _, err := out.Write(msg); err != nil {
		return err
	}
	buf := make([]byte, len(msg))
	if _, err := io.ReadFull(in, buf); err != nil {
		return err
	}
	if string(buf) != string(msg) {
		return fmt.Errorf("回显不一致: %q != %q", buf, msg)
	}
	fmt.Printf("回显成功: %s\n", buf)
	return nil
}
