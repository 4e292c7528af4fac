package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/holdem-table/internal/config"
	"github.com/palemoky/holdem-table/internal/dealer"
	"github.com/palemoky/holdem-table/internal/logger"
)

// CLI 发牌服务参数
type CLI struct {
	Addr     string  `default:":5003" help:"监听地址"`
	Seed     *uint64 `help:"固定随机种子，便于复现发牌结果"`
	LogLevel string  `default:"info" enum:"debug,info,warn,error" help:"日志级别"`
	LogJSON  bool    `name:"log-json" help:"以 JSON 输出日志"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("dealer"),
		kong.Description("参考发牌服务：洗牌、发底牌和公共牌并评估牌力"),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(cli.Run())
}

func (c *CLI) Run() error {
	log, closer, err := logger.New(config.LogConfig{Level: c.LogLevel, JSON: c.LogJSON})
	if err != nil {
		return err
	}
	defer closer.Close()

	seed := uint64(time.Now().UnixNano())
	if c.Seed != nil {
		seed = *c.Seed
	}
	log.WithField("seed", seed).Info("dealer seeded")

	accessLog := log.WriterLevel(logrus.DebugLevel)
	defer accessLog.Close()

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           handlers.CombinedLoggingHandler(accessLog, dealer.NewRouter(dealer.NewService(seed), log)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", c.Addr).Info("dealer listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down dealer")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
