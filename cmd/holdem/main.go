package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/holdem-table/internal/config"
	"github.com/palemoky/holdem-table/internal/dealer"
	"github.com/palemoky/holdem-table/internal/hand"
	"github.com/palemoky/holdem-table/internal/logger"
	"github.com/palemoky/holdem-table/internal/storage"
	"github.com/palemoky/holdem-table/internal/table"
	"github.com/palemoky/holdem-table/internal/view"
)

// Globals 所有子命令共享的参数
type Globals struct {
	Config string `short:"c" default:"configs/config.yaml" help:"配置文件路径，不存在时只读取环境变量"`
	Debug  bool   `help:"输出调试日志"`

	out io.Writer `kong:"-"`
}

// CLI 命令行入口
type CLI struct {
	Globals

	Deal  DealCmd  `cmd:"" help:"向发牌服务请求一次发牌"`
	Table TableCmd `cmd:"" help:"创建、列出和加入牌桌"`
	Hand  HandCmd  `cmd:"" help:"开局、记录动作和查看牌局"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("德州扑克牌桌协调与牌局状态机"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	cli.out = os.Stdout

	os.Exit(report(os.Stderr, kctx.Run(&cli.Globals)))
}

// report 把命令的错误渲染到 w，返回进程退出码
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	_, _ = fmt.Fprintln(w, view.Error(err))
	return 1
}

// app 一次命令执行所需的依赖
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	out     io.Writer
	dealer  dealer.Dealer
	rdb     *redis.Client
	tables  *table.Coordinator
	hands   *hand.Machine
	closers []io.Closer
}

func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if errors.Is(err, os.ErrNotExist) {
		return config.FromEnv()
	}
	return cfg, err
}

// open 加载配置并初始化依赖；withStore 为 false 时不连接 Redis
func (g *Globals) open(ctx context.Context, withStore bool) (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.Debug {
		cfg.Log.Level = logrus.DebugLevel.String()
	}

	log, logCloser, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		out:     g.out,
		dealer:  dealer.NewHTTPClient(cfg.Dealer.URL, cfg.Dealer.TimeoutDuration(), log),
		closers: []io.Closer{logCloser},
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if !withStore {
		return a, nil
	}

	rdb, err := storage.Connect(ctx, storage.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.rdb = rdb
	a.closers = append(a.closers, rdb)

	store := storage.NewRedisStore(rdb)
	a.tables = table.NewCoordinator(store, table.Options{
		MaxSeats:     cfg.Table.MaxSeats,
		JoinAttempts: cfg.Table.JoinAttempts,
		Logger:       log,
	})
	a.hands = hand.NewMachine(a.dealer, store, hand.Options{
		SmallBlind: cfg.Hand.SmallBlind,
		Roster:     a.tables,
		Logger:     log,
	})
	return a, nil
}

// Close 按打开的相反顺序释放资源
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.WithError(err).Warn("close failed")
		}
	}
}

func (a *app) print(s string) {
	_, _ = fmt.Fprintln(a.out, s)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
