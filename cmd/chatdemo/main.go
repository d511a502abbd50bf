// Command chatdemo drives the client-side chat core: it loads the catalog,
// fetches a conversation, sends messages and broadcasts, printing the store
// after each step. Without --api-url it runs against the in-process simulated
// service; otherwise it talks to a running cmd/api.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"

	"go-chatsync/internal/config"
	kvAdapter "go-chatsync/internal/infrastructure/kv/adapter"
	applog "go-chatsync/internal/logging"
	chat "go-chatsync/internal/pkg/chat/application/domain"
	"go-chatsync/internal/pkg/chat/client"
	"go-chatsync/internal/pkg/chat/client/status"
	"go-chatsync/internal/pkg/chat/client/store"
	repoAdapter "go-chatsync/internal/pkg/chat/persistence/repository/adapter"
	"go-chatsync/internal/pkg/chat/remote"
)

var log = logging.MustGetLogger("chatdemo")

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

	ctx := context.Background()
	svc, closeSvc, err := service(ctx, opts)
	if err != nil {
		log.Fatalf("failed to set up chat service: %v", err)
	}
	defer closeSvc()

	st := store.New(store.WithSeed(chat.SeedLogs()), store.WithConversations(chat.DefaultCatalog().Snapshot()))
	defer st.Close()
	st.Subscribe(func(s store.State) {
		log.Debugf("state: pending=%v shared=%+v", s.Status.AnyPending(), s.Status.Shared())
	})
	c := client.New(svc, st)

	steps := []struct {
		name string
		run  func() *client.Operation
	}{
		{"load conversations", func() *client.Operation { return c.LoadConversations(ctx) }},
		{"fetch conversation 1", func() *client.Operation { return c.FetchMessages(ctx, "1") }},
		{"send to conversation 1", func() *client.Operation {
			return c.SendMessage(ctx, "1", chat.Draft{Sender: opts.Sender, Text: "Hello from chatdemo"})
		}},
		{"broadcast to all", func() *client.Operation {
			return c.Broadcast(ctx, chat.Draft{Sender: opts.Sender, Text: "Broadcast from chatdemo"})
		}},
	}

	for _, step := range steps {
		op := step.run()
		fmt.Printf("== %s (pending: %d)\n", step.name, st.State().Status.Pending())

		waitCtx, cancel := context.WithTimeout(ctx, opts.Latency+opts.Jitter+10*time.Second)
		err := op.Wait(waitCtx)
		cancel()
		if err != nil {
			log.Errorf("%s: %v", step.name, err)
		}
		if err := dump(st.State()); err != nil {
			log.Fatalf("failed to print state: %v", err)
		}
	}

	// Two fetches in flight at once; the shared status resolves with whichever answers first.
	first, second := c.FetchMessages(ctx, "2"), c.FetchMessages(ctx, "3")
	fmt.Printf("== concurrent fetches (pending: %d)\n", st.State().Status.Pending())
	c.Wait()
	for _, op := range []*client.Operation{first, second} {
		if err := op.Err(); err != nil {
			log.Errorf("fetch %s: %v", op.Token, err)
		}
	}
	if err := dump(st.State()); err != nil {
		log.Fatalf("failed to print state: %v", err)
	}
}

func service(ctx context.Context, opts *config.Options) (remote.Service, func(), error) {
	if opts.APIURL != "" {
		log.Infof("using mock backend at %s", opts.APIURL)
		return remote.NewHTTPClient(opts.APIURL), func() {}, nil
	}
	kv, err := kvAdapter.Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	sim := remote.NewSimulated(repoAdapter.NewKVLogRepository(kv, time.Now), chat.DefaultCatalog())
	sim.Delay = remote.FixedDelay(opts.Latency, opts.Jitter)
	log.Infof("using simulated service over %s storage", opts.StorageDriver)
	return sim, func() { kv.Close() }, nil
}

type snapshot struct {
	Conversations []chat.Conversation       `json:"conversations"`
	Logs          map[string][]chat.Message `json:"logs"`
	Status        status.Status             `json:"status"`
	AnyPending    bool                      `json:"anyPending"`
}

func dump(s store.State) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot{
		Conversations: s.Conversations,
		Logs:          s.Logs,
		Status:        s.Status.Shared(),
		AnyPending:    s.Status.AnyPending(),
	})
}
