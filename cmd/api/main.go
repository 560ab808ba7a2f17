package main

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/config"
	dbpkg "github.com/clinicore/hospital-portal/internal/db"
	"github.com/clinicore/hospital-portal/internal/logger"
	"github.com/clinicore/hospital-portal/internal/routes"
	"github.com/clinicore/hospital-portal/internal/sessions"
)

const sessionTTL = 24 * time.Hour

func main() {

	_ = godotenv.Load()

	cfg := config.Load()

	logger.Init(cfg.Env)
	defer logger.Sync()

	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	sessionManager := sessions.NewManager(cfg.JWTSecret, sessionTTL, rdb)

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	archiver := newArchiver(cfg)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, sessionManager, auditDispatcher, archiver)

	logger.Get().Infow("server running", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Get().Fatalw("failed to start server", "error", err)
	}
}

// newArchiver returns nil when no bucket is configured; the export
// route then reports archiving as unavailable.
func newArchiver(cfg *config.Config) *audit.Archiver {
	if cfg.AuditArchiveBucket == "" {
		return nil
	}

	awsCfg := aws.Config{
		Region: cfg.AWSRegion,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return audit.NewArchiver(client, cfg.AuditArchiveBucket)
}
