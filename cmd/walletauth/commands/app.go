package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/walletauth/adapters/api"
	"github.com/layer-3/walletauth/adapters/events"
	"github.com/layer-3/walletauth/adapters/store"
	"github.com/layer-3/walletauth/adapters/wallet"
	"github.com/layer-3/walletauth/internal/config"
	"github.com/layer-3/walletauth/ports"
	"github.com/layer-3/walletauth/service"
)

var errDeclined = errors.New("signature request declined")

type app struct {
	controller *service.SessionController
	closers    []func() error
}

func newApp(ctx context.Context, out io.Writer) (*app, error) {
	a := &app{}

	keyring, err := wallet.LoadKeyring(cfg.Wallet.KeyFile)
	if err != nil {
		return nil, err
	}
	if !autoApprove {
		keyring.SetApproval(confirm(os.Stdin, out))
	}

	var rdb *redis.Client
	if cfg.Session.Backend == config.BackendRedis || cfg.Events.Stream {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		rdb = redis.NewClient(opts)
		a.closers = append(a.closers, rdb.Close)
	}

	sessions, err := newSessionStore(rdb)
	if err != nil {
		a.Close()
		return nil, err
	}

	publisher, err := a.newPublisher(ctx, rdb, out)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.controller = service.NewSessionController(
		wallet.NewGateway(keyring).WithLogger(log),
		sessions,
		api.NewClient(cfg.API.URL, nil),
		events.NewWatermillNotifier(publisher, cfg.Events.Topic),
		log,
		cfg.AppName,
	)

	return a, nil
}

func newSessionStore(rdb *redis.Client) (ports.SessionStore, error) {
	origin, err := cfg.API.Origin()
	if err != nil {
		return nil, err
	}

	switch cfg.Session.Backend {
	case config.BackendRedis:
		return store.NewRedisStore(rdb, origin, cfg.StorageKey), nil
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		return store.NewFileStore(cfg.Session.Dir, origin, cfg.StorageKey), nil
	}
}

// newPublisher prints every notification to out and, when enabled, mirrors it to a redis stream
func (a *app) newPublisher(ctx context.Context, rdb *redis.Client, out io.Writer) (message.Publisher, error) {
	wmLogger := watermill.NewSlogLogger(log.Logger)

	local := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, wmLogger)
	a.closers = append(a.closers, local.Close)

	messages, err := local.Subscribe(ctx, cfg.Events.Topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to notifications: %w", err)
	}
	go func() {
		for msg := range messages {
			if n, err := events.Decode(msg); err == nil {
				fmt.Fprintf(out, "[%s] %s\n", n.Severity, n.Message)
			}
			msg.Ack()
		}
	}()

	if !cfg.Events.Stream {
		return local, nil
	}

	stream, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: rdb}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}
	a.closers = append(a.closers, stream.Close)

	return events.FanOut{local, stream}, nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Debug("failed to release resource", "error", err)
		}
	}
}

// confirm asks on out before every signature and reads the answer from in
func confirm(in io.Reader, out io.Writer) wallet.ApproveFunc {
	reader := bufio.NewReader(in)

	return func(ctx context.Context, payload wallet.SignRawPayload) error {
		fmt.Fprintf(out, "Sign in as %s? [y/N] ", payload.Address)

		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return nil
		default:
			return errDeclined
		}
	}
}
