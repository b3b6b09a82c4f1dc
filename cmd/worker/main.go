package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amankumarsingh77/shortform-backend/internal/config"
	"github.com/amankumarsingh77/shortform-backend/internal/pipeline"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts/repository"
	"github.com/amankumarsingh77/shortform-backend/internal/worker"
	"github.com/amankumarsingh77/shortform-backend/pkg/db/aws"
	"github.com/amankumarsingh77/shortform-backend/pkg/db/postgres"
	clientRedis "github.com/amankumarsingh77/shortform-backend/pkg/db/redis"
	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	awsClient, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	awsRepo := repository.NewAwsRepository(awsClient, presignClient)
	redisRepo := repository.NewShortsRedisRepo(redisClient, cfg)
	catalogRepo := repository.NewCatalogRepo(psqlDB)

	ffmpeg := pipeline.NewFFmpeg(cfg.Pipeline.FFmpegPath, cfg.Pipeline.FFprobePath)
	voiceCacheDir := filepath.Join(os.TempDir(), "shortform_voices")

	orch := pipeline.NewOrchestrator(cfg, appLogger, pipeline.Deps{
		Tracker: redisRepo,
		Catalog: catalogRepo,
		Store:   awsRepo,
		Fetcher: pipeline.NewAssetFetcher(awsRepo),
		Synth: pipeline.NewTTSSynthesizer(
			cfg.Pipeline.TTSBin, cfg.S3.AssetBucket, voiceCacheDir, awsRepo, ffmpeg, appLogger),
		Locator: pipeline.NewExecLocator(cfg.Pipeline.DetectorBin, appLogger),
		Extractor: pipeline.NewClipExtractor(
			ffmpeg, cfg.Pipeline.ClipWindowSec, cfg.Pipeline.FrameSampleSec),
		Cropper: pipeline.NewSmartCropper(
			ffmpeg, cfg.Pipeline.CropWeightBase, cfg.Pipeline.CropSmoothing,
			cfg.Pipeline.OutputWidth, cfg.Pipeline.OutputHeight),
		Matcher:  pipeline.NewDurationMatcher(ffmpeg, cfg.Pipeline.MinSpeed, cfg.Pipeline.MaxSpeed),
		Stitcher: pipeline.NewStitcher(ffmpeg),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down workers")
		cancel()
	}()

	w := worker.NewWorker(cfg, appLogger, redisRepo, orch)
	w.Start(ctx)
	w.Wait()
}
