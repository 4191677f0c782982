package main

import (
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"slate-api/api"
	"slate-api/domain"
	"slate-api/storage"
)

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}

	boardKey := os.Getenv("BOARD_KEY")
	if boardKey == "" {
		boardKey = "board"
	}

	var store domain.DocumentStorage
	switch backend := os.Getenv("STORAGE_BACKEND"); backend {
	case "", "redis":
		store = storage.New(newRedisClient(), boardKey)
	case "tables":
		connStr := os.Getenv("STORAGE_CONNECTION_STRING")
		tableName := os.Getenv("BOARD_TABLE")
		if connStr == "" || tableName == "" {
			log.Fatal("missing table storage config")
		}
		tables, err := storage.NewTables(connStr, tableName)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		store = tables
		if v := os.Getenv("CACHE_TTL"); v != "" {
			ttl, err := time.ParseDuration(v)
			if err != nil || ttl <= 0 {
				log.Fatalf("invalid CACHE_TTL: %v", err)
			}
			store = storage.NewCache(tables, newRedisClient(), ttl, boardKey+":cache")
		}
	default:
		log.Fatalf("unknown STORAGE_BACKEND %q", backend)
	}

	otel.SetTracerProvider(sdktrace.NewTracerProvider())

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	logger := log.New()
	api.Register(e, domain.NewBoardService(store), logger)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}

func newRedisClient() *redis.Client {
	redisConn := os.Getenv("REDIS_CONNECTION_STRING")
	if redisConn == "" {
		log.Fatal("missing redis config")
	}
	redisOpts, err := redis.ParseURL(redisConn)
	if err != nil {
		parts := strings.Split(redisConn, ",")
		redisOpts = &redis.Options{Addr: parts[0]}
		for _, p := range parts[1:] {
			kv := strings.SplitN(p, "=", 2)
			if len(kv) != 2 {
				continue
			}
			switch strings.ToLower(kv[0]) {
			case "password":
				redisOpts.Password = kv[1]
			case "ssl":
				if strings.ToLower(kv[1]) == "true" {
					redisOpts.TLSConfig = &tls.Config{}
				}
			}
		}
	}
	return redis.NewClient(redisOpts)
}
