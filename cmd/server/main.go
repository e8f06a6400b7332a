package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"

	"github.com/factlens/factlens/app_config"
	"github.com/factlens/factlens/graphdb"
	"github.com/factlens/factlens/llm"
	"github.com/factlens/factlens/pipeline"
	"github.com/factlens/factlens/server"
	"github.com/factlens/factlens/server/middlewares"
	"github.com/factlens/factlens/translator"
	. "github.com/factlens/factlens/utils"
	"github.com/factlens/factlens/utils/dotenv"
	. "github.com/factlens/factlens/utils/flag"
	. "github.com/factlens/factlens/utils/log"
)

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func newGenerator(cfg app_config.QueryAppConfig) (llm.Generator, error) {
	gen, err := llm.NewOllamaGenerator(cfg.MODEL_NAME)
	if err != nil {
		return nil, err
	}
	if cfg.COMPLETION_CACHE_TTL_SECOND > 0 && dotenv.RuntimeEnv() != dotenv.TestEnv {
		ttl := time.Duration(cfg.COMPLETION_CACHE_TTL_SECOND) * time.Second
		return &llm.CachedGenerator{
			Inner: gen,
			Cache: llm.NewCompletionCacheFromEnv(ttl),
		}, nil
	}
	return gen, nil
}

func main() {
	defer cleanup()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	appConfig := app_config.ParseQueryAppConfig(AppConfigPath)

	store, err := graphdb.NewClientFromEnv()
	if err != nil {
		Log.Fatal("fail to create graph store client: ", err)
	}
	defer store.Close(context.Background())
	if err := store.Ping(context.Background()); err != nil {
		// The store may come up after us, the healthcheck keeps reporting
		// until it does.
		Log.Warn("graph store unreachable at startup: ", err)
	}

	generator, err := newGenerator(appConfig)
	if err != nil {
		Log.Fatal("fail to create completion model client: ", err)
	}

	promptConfig := translator.DefaultPromptConfig()
	promptConfig.ResultLimit = appConfig.RESULT_LIMIT

	// Immutable after this point, shared read-only by all requests.
	queryPipeline := pipeline.New(promptConfig, store, generator)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(middlewares.RequestId())
	if dotenv.IsProdEnv() {
		router.Use(gintrace.Middleware(ServiceName))
	}

	router.POST("/query", server.QueryHandler(queryPipeline))
	router.GET("/healthcheck", server.HealthcheckHandler(store))

	Log.Info("api server starts up")
	router.Run(":8080")
}
