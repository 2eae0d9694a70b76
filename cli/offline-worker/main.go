package main

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/bridge"
	"github.com/gazhub/offline-worker/pkg/cache"
	"github.com/gazhub/offline-worker/pkg/config"
	"github.com/gazhub/offline-worker/pkg/database"
	"github.com/gazhub/offline-worker/pkg/lifecycle"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/storage"
	"github.com/gazhub/offline-worker/pkg/syncer"
	"github.com/gazhub/offline-worker/pkg/utils/logging"
	"github.com/gazhub/offline-worker/pkg/web"
	"github.com/gazhub/offline-worker/pkg/widget"
)

var version = "dev"

const (
	bucketPrefix    = "gazhub"
	assetMaxEntries = 60
	assetMaxAge     = 30 * 24 * time.Hour
)

var cli struct {
	// Durable store backends
	DBSqlite   string `env:"DB_SQLITE" required:"" xor:"db" help:"SQLite filepath e.g. /tmp/worker.sqlite"`
	DBPostgres string `env:"DB_POSTGRES" required:"" xor:"db" help:"Postgres URI e.g. postgresql://blah"`
	DBLevelDB  string `env:"DB_LEVELDB" required:"" xor:"db" name:"db-leveldb" help:"LevelDB directory e.g. /tmp/worker-db"`

	// Cache bucket storage backends
	StorageDisk      string `env:"STORAGE_DISK" required:"" xor:"storage" help:"Use disk storage for cache buckets e.g. /tmp/cache"`
	StorageS3        string `env:"STORAGE_S3" required:"" xor:"storage" name:"storage-s3" help:"Use S3 storage for cache buckets e.g. s3://bucket"`
	StorageAzureBlob string `env:"STORAGE_AZBLOB" required:"" xor:"storage" help:"Use Azure blob storage for cache buckets, connection string"`

	// Storefront wiring
	OriginURL         string `env:"ORIGIN_URL" required:"" help:"Storefront origin e.g. https://shop.example.com"`
	WidgetDataURL     string `env:"WIDGET_DATA_URL" default:"/api/widget/quick-order.json" help:"Widget data endpoint, absolute or origin-relative"`
	WidgetTemplateURL string `env:"WIDGET_TEMPLATE_URL" default:"/widgets/quick-order.html" help:"Widget template endpoint"`
	PrecacheManifest  string `env:"PRECACHE_MANIFEST" help:"YAML manifest of offline-fallback assets"`
	CacheGeneration   string `env:"CACHE_GENERATION" default:"v1" help:"Cache bucket generation, bump to invalidate old buckets"`
	IntakeTarget      string `env:"INTAKE_TARGET" default:"/orders/new" help:"Page the order-intake redirect points at"`

	// Triggers
	SyncInterval   time.Duration `env:"SYNC_INTERVAL" default:"0" help:"Drain the queue on a timer as well, 0 disables"`
	WidgetInterval time.Duration `env:"WIDGET_INTERVAL" default:"0" help:"Refresh widget assets on a timer as well, 0 disables"`

	// Push
	PushSecret   string `env:"PUSH_SECRET" help:"HS256 secret push deliveries must be signed with"`
	DefaultTitle string `env:"PUSH_DEFAULT_TITLE" default:"GazHub" help:"Notification title when the payload has none"`
	DefaultBody  string `env:"PUSH_DEFAULT_BODY" default:"You have new updates" help:"Notification body when the payload has none"`

	// Misc
	LogLevel             string `env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error"`
	ListenAddress        string `env:"LISTEN_ADDR" default:"0.0.0.0:8080" help:"Listen address e.g. 0.0.0.0:8080"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDR" default:"0.0.0.0:9102" help:"Listen address for prometheus metrics e.g. 0.0.0.0:9102"`
	Debug                bool   `env:"DEBUG" help:"Enable debug mode"`
}

func resolveAgainst(origin *url.URL, raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.IsAbs() {
		return raw
	}
	resolved := *origin
	resolved.Path = parsed.Path
	resolved.RawQuery = parsed.RawQuery
	return resolved.String()
}

func main() {
	kong.Parse(&cli)

	logging.SetupLogging(cli.LogLevel)

	var databaseBackendName, dbConnectionString string
	if cli.DBSqlite != "" {
		databaseBackendName = "sqlite"
		dbConnectionString = cli.DBSqlite
	}
	if cli.DBPostgres != "" {
		databaseBackendName = "postgres"
		dbConnectionString = cli.DBPostgres
	}
	if cli.DBLevelDB != "" {
		databaseBackendName = "leveldb"
		dbConnectionString = cli.DBLevelDB
	}

	var storageBackendName, storageConnectionString string
	if cli.StorageDisk != "" {
		storageBackendName = "disk"
		storageConnectionString = cli.StorageDisk
	}
	if cli.StorageS3 != "" {
		storageBackendName = "s3"
		storageConnectionString = cli.StorageS3
	}
	if cli.StorageAzureBlob != "" {
		storageBackendName = "azureblob"
		storageConnectionString = cli.StorageAzureBlob
	}

	dbBackend, err := database.GetBackend(databaseBackendName, dbConnectionString)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initiate database backend")
	}

	storageBackend, err := storage.GetStorageBackend(storageBackendName, storageConnectionString)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initiate storage backend")
	}

	origin, err := url.Parse(cli.OriginURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse origin URL")
	}

	manifest, err := config.LoadManifest(cli.PrecacheManifest)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load precache manifest")
	}

	names := cache.Names{Prefix: bucketPrefix, Generation: cli.CacheGeneration}
	pages := &cache.Bucket{Name: names.For(cache.RolePages), Storage: storageBackend}
	assets := &cache.Bucket{Name: names.For(cache.RoleAssets), Storage: storageBackend, MaxEntries: assetMaxEntries, MaxAge: assetMaxAge}
	images := &cache.Bucket{Name: names.For(cache.RoleImages), Storage: storageBackend, MaxEntries: assetMaxEntries, MaxAge: assetMaxAge}
	widgets := &cache.Bucket{Name: names.For(cache.RoleWidget), Storage: storageBackend}
	offline := &cache.Bucket{Name: names.For(cache.RoleOffline), Storage: storageBackend}

	client := &http.Client{Timeout: 30 * time.Second}
	hub := bridge.NewHub()

	cacheRouter := cache.NewRouter(client, origin, pages, assets, images, offline, manifest.OfflinePage)

	refresher := &widget.Refresher{
		DataURL:     resolveAgainst(origin, cli.WidgetDataURL),
		TemplateURL: resolveAgainst(origin, cli.WidgetTemplateURL),
		Bucket:      widgets,
		Hub:         hub,
		Client:      client,
	}

	controller := &lifecycle.Controller{
		Storage:  storageBackend,
		Database: dbBackend,
		Names:    names,
		Offline:  offline,
		Manifest: manifest,
		Origin:   origin,
		Client:   client,
		Hub:      hub,
		Info:     s.VersionInfo{Version: version},
	}

	drainer := &syncer.Drainer{Database: dbBackend, Client: client}

	messageBridge := &bridge.Bridge{
		Hub:       hub,
		Database:  dbBackend,
		Widget:    refresher,
		Lifecycle: controller,
	}

	// install then activate, same order the platform runs them in
	startCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err = controller.Install(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Install failed")
	}
	if err = controller.Activate(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Activation failed")
	}
	cancel()

	if cli.SyncInterval > 0 {
		go func() {
			for range time.Tick(cli.SyncInterval) {
				ctx, cancelTick := context.WithTimeout(context.Background(), time.Minute)
				_, _ = drainer.Drain(ctx)
				cancelTick()
			}
		}()
	}
	if cli.WidgetInterval > 0 {
		go func() {
			for range time.Tick(cli.WidgetInterval) {
				ctx, cancelTick := context.WithTimeout(context.Background(), time.Minute)
				refresher.Refresh(ctx)
				cancelTick()
			}
		}()
	}

	handlers := web.Handlers{
		Database:     dbBackend,
		Drainer:      drainer,
		Widget:       refresher,
		Lifecycle:    controller,
		Bridge:       messageBridge,
		Cache:        cacheRouter,
		PushSecret:   cli.PushSecret,
		DefaultTitle: cli.DefaultTitle,
		DefaultBody:  cli.DefaultBody,
		IntakeTarget: cli.IntakeTarget,
		Debug:        cli.Debug,
	}

	router := web.GetRouter(cli.MetricsListenAddress, handlers, true)

	log.Info().Msgf("Listening on %s", cli.ListenAddress)
	if err = router.Run(cli.ListenAddress); err != nil {
		log.Fatal().Err(err).Msg("Failed HTTP server loop")
	}
}
