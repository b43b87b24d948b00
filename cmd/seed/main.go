package main

import (
	"context"
	"errors"
	"time"

	"github.com/Varun5711/blogd/internal/config"
	"github.com/Varun5711/blogd/internal/database"
	"github.com/Varun5711/blogd/internal/idgen"
	"github.com/Varun5711/blogd/internal/lock"
	"github.com/Varun5711/blogd/internal/logger"
	"github.com/Varun5711/blogd/internal/models"
	"github.com/Varun5711/blogd/internal/redis"
	"github.com/Varun5711/blogd/internal/service"
	"github.com/Varun5711/blogd/internal/storage"
)

var samplePosts = []models.CreatePostRequest{
	{
		Title:   "Getting Started with Remix",
		Content: "This post will guide you through the basics of Remix.",
		Author:  "John Doe",
	},
	{
		Title:   "Advanced Remix Techniques",
		Content: "Explore advanced techniques for building Remix apps.",
		Author:  "Jane Smith",
	},
	{
		Title:   "Using Tailwind CSS in Remix",
		Content: "Learn how to integrate Tailwind CSS with Remix to style your apps.",
		Author:  "Alex Johnson",
	},
}

func main() {
	log := logger.New("seed")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	if cfg.Database.DSN == "" {
		log.Fatal("DATABASE_URL is required to seed posts")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbManager, err := database.NewDBManager(ctx, database.Config{
		DSN:             cfg.Database.DSN,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	idGen, err := idgen.NewGenerator(cfg.Snowflake.NodeID)
	if err != nil {
		log.Fatal("Failed to create ID generator: %v", err)
	}

	posts := service.NewPostService(storage.NewPostgresStorage(dbManager.SQL()), nil, idGen, log)

	insert := func(ctx context.Context) error {
		for i := range samplePosts {
			post, err := posts.Create(ctx, &samplePosts[i])
			if err != nil {
				return err
			}
			log.Debug("inserted %s", post.ID)
		}
		return nil
	}

	// With Redis available, concurrent seed runs (e.g. several deploy hooks)
	// insert the sample posts once.
	if cfg.Redis.Addr != "" {
		rc, err := redis.NewRedisClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()

		err = lock.NewDistributedLock(rc.GetClient(), "blogd:lock:seed", time.Minute).WithLock(ctx, insert)
		if errors.Is(err, lock.ErrLockNotAcquired) {
			log.Info("Another seed run holds the lock, skipping")
			return
		}
		if err != nil {
			log.Fatal("Seed failed: %v", err)
		}
	} else if err := insert(ctx); err != nil {
		log.Fatal("Seed failed: %v", err)
	}

	log.Info("Seed data inserted (%d posts)", len(samplePosts))
}
