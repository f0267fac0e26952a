package main

import (
	"flag"
	"fmt"
	"log/slog"
	"message-lab/domain"
	"message-lab/repositories"
	"message-lab/runtime"
	"message-lab/services"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

var categories = []string{"Sport", "Music", "Weather", "News"}

// Fills a badger directory with sample messages for badger_inspect.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	count := flag.Int("n", 20, "Number of messages to generate")
	flag.Parse()

	if err := generate(*dbPath, *count); err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d messages written to %s\n", *count, *dbPath)
}

func generate(path string, count int) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return err
	}
	defer db.Close()

	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	service := services.NewMessageService(log, runtime.NewMessageRegistry(),
		repositories.NewMessageRepository(db, log, nil))

	for i := range count {
		id, err := service.Create(domain.CreateMessageCommand{
			Title: fmt.Sprintf("MESSAGE TITLE %d", i),
			Text:  fmt.Sprintf("generated message number %d", i),
		})
		if err != nil {
			return err
		}
		_, err = service.DefineProperty(domain.DefinePropertyCommand{
			MessageID: id,
			Key:       "category",
			Descriptor: domain.PropertyDescriptor{
				Value:        categories[i%len(categories)],
				Writable:     true,
				Enumerable:   true,
				Configurable: i%2 == 0,
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
