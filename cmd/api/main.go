package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"

	v1 "go-chatsync/cmd/api/router/v1"
	"go-chatsync/internal/config"
	kvAdapter "go-chatsync/internal/infrastructure/kv/adapter"
	queueAdapter "go-chatsync/internal/infrastructure/queue/adapter"
	qport "go-chatsync/internal/infrastructure/queue/port"
	applog "go-chatsync/internal/logging"
	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/application/task"
	repoAdapter "go-chatsync/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "go-chatsync/internal/pkg/chat/presentation/http"
	"go-chatsync/internal/pkg/chat/remote"
)

var log = logging.MustGetLogger("api")

func main() {
	opts, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(1)
	}
	if err := applog.Setup(opts.LogLevel, opts.LogFile); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage on startup
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	kv, err := kvAdapter.Open(openCtx, opts)
	cancel()
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", opts.StorageDriver, err)
	}
	defer kv.Close()

	repo := repoAdapter.NewKVLogRepository(kv, time.Now)
	deps := httpHandler.Dependencies{Repo: repo, Catalog: chat.DefaultCatalog()}

	var worker qport.Server
	if opts.QueueEnabled {
		client, err := queueAdapter.NewAsynqClient(opts.RedisURL)
		if err != nil {
			log.Fatalf("failed to create queue client: %v", err)
		}
		defer client.Close()
		deps.Queue = client
		deps.QueueName = queueAdapter.ChatQueue

		srv, err := queueAdapter.NewAsynqServer(opts.RedisURL, opts.AsynqConcurrency, opts.AsynqQueues)
		if err != nil {
			log.Fatalf("failed to create queue worker: %v", err)
		}
		task.RegisterSendMessageTask(srv, repo)
		worker = srv
	}

	if opts.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	httpHandler.RegisterHealth(r, kv)
	v1.RegisterRoutes(r, deps, remote.FixedDelay(opts.Latency, opts.Jitter))

	if worker != nil {
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Errorf("queue worker stopped: %v", err)
				stop()
			}
		}()
	}

	srv := &http.Server{Addr: opts.Addr, Handler: r}
	go func() {
		log.Infof("mock backend listening on %s (latency %s, storage %s)", opts.Addr, opts.Latency, opts.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warningf("http shutdown: %v", err)
	}
}

// requestLogger routes gin's per-request line through go-logging.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
