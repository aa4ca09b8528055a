package results

import (
	"fmt"

	"github.com/smukkama/lift-analyzer/internal/database"
	"github.com/smukkama/lift-analyzer/internal/queue"
	"github.com/smukkama/lift-analyzer/pkg/config"
)

// Open builds a recorder with the sinks enabled in cfg. The returned close
// function releases their connections and is safe to call when no sink is
// enabled.
func Open(cfg *config.Config) (*Recorder, func(), error) {
	recorder := NewRecorder()
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database.ConnectionString())
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		fmt.Println("Connected to database")

		if err := db.RunMigrations(cfg.Database.MigrationsDir); err != nil {
			return nil, closeAll, fmt.Errorf("failed to run migrations: %w", err)
		}
		recorder.Add("postgres", NewDatabaseSink(db))
	}

	if cfg.Kafka.Enabled {
		if err := queue.CreateTopic(
			cfg.Kafka.Brokers,
			cfg.Kafka.TopicRuns,
			cfg.Kafka.NumPartitions,
			1, // replication factor
		); err != nil {
			fmt.Printf("Note: Topic creation failed (may already exist): %v\n", err)
		}

		producer := queue.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicRuns)
		closers = append(closers, func() { producer.Close() })
		fmt.Println("Run event producer initialized")
		recorder.Add("kafka", NewQueueSink(producer))
	}

	return recorder, closeAll, nil
}
