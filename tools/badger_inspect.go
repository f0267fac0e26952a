package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"message-lab/repositories"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	limit := flag.Int("limit", 100, "Maximum number of messages per page")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Created", "Full message", "Extensible", "Properties"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	repository := repositories.NewMessageRepository(db, logs.GetLoggerFromLevel(slog.LevelWarn), limit)
	var cursor *string
	for {
		page, next, err := repository.GetMessages(cursor)
		if err != nil {
			log.Fatal(err)
		}
		if len(page) == 0 {
			break
		}
		for _, m := range page {
			properties := lo.Map(m.Order, func(key string, _ int) string {
				return fmt.Sprintf("%s=%v", key, m.Properties[key].Value)
			})
			table.Append([]string{
				m.ID.String()[:8],
				m.At.Format("2006-01-02 15:04:05"),
				m.Title + ": " + m.Text,
				fmt.Sprint(m.Extensible),
				strings.Join(properties, " "),
			})
		}
		cursor = next
	}
	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
