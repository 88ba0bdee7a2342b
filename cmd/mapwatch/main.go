// Command mapwatch tails the map-state events the API publishes to NATS.
//
//	mapwatch            # every session
//	mapwatch <session>  # one session
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/evoteli/internal/adapters/nats"
	"github.com/samirrijal/evoteli/internal/pkg/config"
	"github.com/samirrijal/evoteli/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("evoteli-mapwatch")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	var session string
	if len(os.Args) > 1 {
		session = os.Args[1]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, "evoteli-mapwatch")
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeMapState(ctx, session, func(ctx context.Context, ev *natsadapter.MapStateEvent) {
		st := ev.State
		slog.InfoContext(ctx, "map state",
			"session", ev.ClientID,
			"version", ev.Version,
			"basemap", st.Basemap,
			"layers", st.ActiveLayers.Sorted(),
			"lat", st.Viewport.Latitude,
			"lon", st.Viewport.Longitude,
			"zoom", st.Viewport.Zoom,
			"draw_mode", st.DrawMode,
			"territory", st.DrawnTerritory != nil,
			"published_at", ev.PublishedAt,
		)
	}, func(subject string, err error) {
		slog.Warn("undecodable event", "subject", subject, "error", err)
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	slog.Info("watching map state", "subject", natsadapter.WatchSubject(session), "stream", natsadapter.StreamMapState)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
