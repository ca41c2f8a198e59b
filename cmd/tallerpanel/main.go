package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jetsetgo/taller-orders/internal/catalog"
	"github.com/jetsetgo/taller-orders/internal/config"
	"github.com/jetsetgo/taller-orders/internal/form"
	"github.com/jetsetgo/taller-orders/internal/logging"
	"github.com/jetsetgo/taller-orders/internal/panel"
	"github.com/jetsetgo/taller-orders/internal/status"
	"github.com/jetsetgo/taller-orders/internal/suggest"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pc := cfg.Panel
	page := panel.NewPage(panel.DefaultLogHeight)
	renderer := panel.NewRenderer(os.Stdout, false)

	tasks := loadCatalog(ctx, pc.BaseURL+"/", pc.HTTPTimeout, logger)
	logger.Info("task catalog loaded", zap.Int("tasks", tasks.Len()))

	dropdown := suggest.NewDropdown(suggest.NewEngine(tasks), page, pc.BlurDelay, logger)
	dropdown.OnChange = page.ShowSuggestions

	poller := status.NewPoller(pc.BaseURL+pc.StatusPath, pc.PollInterval, pc.HTTPTimeout, page, logger)
	var refresher panel.Refresher = poller
	var source panel.StatusSource = poller

	if pc.UseWebSocket {
		wsURL, err := websocketURL(pc.BaseURL, pc.WSPath)
		if err != nil {
			logger.Fatal("invalid base url", zap.Error(err))
		}
		watcher := status.NewWatcher(wsURL, pc.WSReconnectDelay, pc.WSMaxReconnect, page, logger)
		watcher.Start(ctx)
		defer watcher.Stop()
		source = watcher

		// the feed has no pull; a manual refresh is a single poll
		refresher = panel.RefreshFunc(func() {
			go poller.PollOnce(ctx)
		})
	} else {
		poller.Start(ctx)
		defer poller.Stop()
	}

	client := form.NewClient(pc.BaseURL, pc.AddPath, pc.ProcessPath, pc.HTTPTimeout)
	coordinator := form.NewCoordinator(client, renderer, logger)
	console := panel.NewConsole(page, dropdown, coordinator, refresher, renderer, logger)
	console.WatchStatus(source)

	fmt.Println("Escribe 'help' para ver los comandos.")
	if err := console.Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("console stopped", zap.Error(err))
	}
}

// loadCatalog reads the task list embedded in the served page. Any failure
// leaves the suggestions empty.
func loadCatalog(ctx context.Context, pageURL string, timeout time.Duration, logger *zap.Logger) *catalog.Catalog {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		logger.Error("build page request", zap.Error(err))
		return catalog.Empty()
	}

	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		logger.Error("fetch page", zap.String("url", pageURL), zap.Error(err))
		return catalog.Empty()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("fetch page", zap.String("url", pageURL), zap.Int("status", resp.StatusCode))
		return catalog.Empty()
	}
	return catalog.FromHTML(resp.Body, logger)
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path
	return u.String(), nil
}
