package main

import (
	"fmt"
	"log/slog"
	"message-lab/domain"
	"message-lab/repositories"
	"message-lab/runtime"
	"message-lab/services"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run walks through building a message by name, calling it by name and
// editing its properties by key, then persists and reloads the result.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB), in memory unless a path is configured
	options := badger.DefaultOptions(config.BadgerFilepath)
	if config.BadgerFilepath == "" {
		options = badger.DefaultOptions("").WithInMemory(true)
	}
	db, err := badger.Open(options.WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	registry := runtime.NewMessageRegistry()
	repository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	service := services.NewMessageService(log, registry, repository)

	// 3. Construct by name
	section("Construct")
	value, err := registry.Construct(domain.MessageTypeName, config.MessageTitle, config.MessageText)
	if err != nil {
		return err
	}
	fmt.Println("instance of Message:", registry.IsInstance(value, domain.MessageTypeName))
	msg := value.(*domain.Message)
	fmt.Println(msg.FullMessage())

	// 4. Call by name
	section("Apply")
	longer, err := msg.HasTitleLongerThan(config.TitleThreshold)
	if err != nil {
		return err
	}
	fmt.Println(longer)
	applied, err := registry.Apply(msg, runtime.MethodHasTitleLongerThan, config.TitleThreshold)
	if err != nil {
		return err
	}
	fmt.Println(applied)
	if _, err = registry.Apply(msg, runtime.MethodHasTitleLongerThan, 0); err != nil {
		fmt.Println("rejected:", err)
	}

	// 5. Define, query and delete a property
	section("Define property")
	fmt.Println(msg.DefineProperty("category", domain.PropertyDescriptor{
		Value:        "Sport",
		Writable:     true,
		Enumerable:   true,
		Configurable: true,
	}))
	describe(msg)
	fmt.Println("has category:", registry.Has(msg, "category"))
	fmt.Println(msg.OwnKeys())
	msg.DeleteProperty("category")
	fmt.Println(msg.OwnKeys())

	// 6. Set a field by key
	section("Set")
	printDescriptor(msg, domain.KeyTitle)
	if err = msg.Set(domain.KeyTitle, "XXX"); err != nil {
		return err
	}
	printDescriptor(msg, domain.KeyTitle)

	// 7. Persist and reload through the service
	section("Persist")
	id, err := service.Create(domain.CreateMessageCommand{Title: msg.Title, Text: msg.Text})
	if err != nil {
		return err
	}
	if err = service.SetProperty(domain.SetPropertyCommand{MessageID: id, Key: "category", Value: "Sport"}); err != nil {
		return err
	}
	reloaded, err := service.Get(id)
	if err != nil {
		return err
	}
	describe(reloaded)
	log.Info("Walkthrough finished", slog.String("id", id.String()))
	return nil
}

func section(title string) {
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("== " + title + " =="))
}

func printDescriptor(msg *domain.Message, key string) {
	desc, ok := msg.GetOwnPropertyDescriptor(key)
	if !ok {
		fmt.Println(key, "has no own descriptor")
		return
	}
	fmt.Printf("%s: %+v\n", key, desc)
}

// describe prints one row per own key with its attributes.
func describe(msg *domain.Message) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Value", "Writable", "Enumerable", "Configurable"})
	table.SetAutoFormatHeaders(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, key := range msg.OwnKeys() {
		desc, _ := msg.GetOwnPropertyDescriptor(key)
		table.Append([]string{
			key,
			fmt.Sprint(desc.Value),
			fmt.Sprint(desc.Writable),
			fmt.Sprint(desc.Enumerable),
			fmt.Sprint(desc.Configurable),
		})
	}
	table.Render()
}
