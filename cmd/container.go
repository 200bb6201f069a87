// cmd/container.go
//
// Composition root. Owns infrastructure (DB, Redis) and wires the IAM
// dependency graph: repos → services → handlers → middleware.
package main

import (
	"context"

	"github.com/Abraxas-365/vendia/pkg/config"
	"github.com/Abraxas-365/vendia/pkg/iam/auth"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authapi"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/vendia/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/vendia/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/vendia/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/vendia/pkg/logx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure plus the composed IAM module.
type Container struct {
	Config *config.Config

	DB    *sqlx.DB
	Redis *redis.Client

	AuthService    *authsrv.AuthService
	UserService    *usersrv.UserService
	AuthHandlers   *authapi.AuthHandlers
	AuthMiddleware *auth.TokenMiddleware
	CleanupService *authinfra.CleanupService
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("Initializing application container...")

	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initModules()

	logx.Info("Application container initialized")
	return c
}

func (c *Container) initInfrastructure() {
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("Database connected")

	if c.Config.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		logx.Info("Redis connected")
	}
}

func (c *Container) initModules() {
	userRepo := userinfra.NewPostgresUserRepository(c.DB)

	tokenService := auth.NewJWTService(
		c.Config.Auth.JWTSecret,
		c.Config.Auth.AccessTokenTTL,
		c.Config.Auth.Issuer,
	)
	hasher := authinfra.NewBcryptPasswordService(c.Config.Auth.BcryptCost)
	policy := auth.NewPasswordPolicy()
	refreshGen := auth.NewRefreshTokenGenerator(c.Config.Auth.RefreshGenerateRetries)

	var audit auth.AuditService
	if c.Redis != nil {
		audit = authinfra.NewRedisAuditService(c.Redis, c.Config.Redis.Stream)
		logx.Info("Audit events published to Redis stream " + c.Config.Redis.Stream)
	} else {
		audit = authinfra.NewLogxAuditService()
	}

	c.AuthService = authsrv.NewAuthService(
		userRepo, tokenService, hasher, refreshGen,
		c.Config.Auth.RefreshTokenTTL, audit,
	)
	c.UserService = usersrv.NewUserService(userRepo, hasher, policy, audit)
	c.AuthHandlers = authapi.NewAuthHandlers(c.AuthService, c.UserService)
	c.AuthMiddleware = auth.NewTokenMiddleware(tokenService)
	c.CleanupService = authinfra.NewCleanupService(userRepo, c.Config.Auth.CleanupInterval)
}

// StartBackgroundServices launches workers tied to ctx's lifetime.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	c.CleanupService.Start(ctx)
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		}
	}
	logx.Info("Cleanup complete")
}
