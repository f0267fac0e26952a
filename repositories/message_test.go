package repositories

import (
	"log/slog"
	"message-lab/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func diskMessage(title string, at time.Time) DiskMessage {
	return DiskMessage{
		ID:         uuid.New(),
		Title:      title,
		Text:       "MESSAGE TEXT",
		Extensible: true,
		At:         at,
	}
}

func Test_Store_And_Get_Message_With_Properties(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	message := diskMessage("MESSAGE TITLE", time.Date(2026, 10, 17, 9, 30, 0, 123456789, time.UTC))
	message.Properties = map[string]DiskProperty{
		"category": {Value: "Sport", Writable: true, Enumerable: true, Configurable: true},
		"score":    {Value: 4.5},
		"tags":     {Value: []any{"a", "b"}, Writable: true},
	}
	message.Order = []string{"category", "score", "tags"}

	req.NoError(repository.StoreMessage(message))

	fetched, err := repository.GetMessage(message.ID)
	req.NoError(err)
	req.Equal(message, fetched)
}

func Test_Store_Twice_Overwrites(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)
	message := diskMessage("MESSAGE TITLE", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	req.NoError(repository.StoreMessage(message))

	message.Title = "XXX"
	message.Extensible = false
	req.NoError(repository.StoreMessage(message))

	fetched, err := repository.GetMessage(message.ID)
	req.NoError(err)
	req.Equal("XXX", fetched.Title)
	req.False(fetched.Extensible)

	all, _, err := repository.GetMessages(nil)
	req.NoError(err)
	req.Len(all, 1)
}

func Test_Get_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	_, err := repository.GetMessage(uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)
	req.ErrorIs(repository.DeleteMessage(uuid.New()), errors.ErrMessageNotFound)
}

func Test_Store_Rejects_Unsupported_Values(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	message := diskMessage("t", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	message.Properties = map[string]DiskProperty{"ch": {Value: make(chan int)}}
	message.Order = []string{"ch"}
	req.ErrorIs(repository.StoreMessage(message), errors.ErrInvalidArgument)

	message.Order = []string{"missing"}
	req.ErrorIs(repository.StoreMessage(message), errors.ErrUnknownProperty)
}

func Test_Get_Messages_In_Chronological_Order_With_Cursor(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), lo.ToPtr(2))

	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	messages := []DiskMessage{
		diskMessage("Clara", at.Add(2*time.Minute)),
		diskMessage("Alice", at),
		diskMessage("Bob", at.Add(1*time.Minute)),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	firstPage, cursor, err := repository.GetMessages(nil)
	req.NoError(err)
	req.Equal([]string{"Alice", "Bob"}, lo.Map(firstPage, func(m DiskMessage, _ int) string { return m.Title }))
	req.NotNil(cursor)

	secondPage, cursor, err := repository.GetMessages(cursor)
	req.NoError(err)
	req.Len(secondPage, 1)
	req.Equal(messages[0], secondPage[0])

	lastPage, _, err := repository.GetMessages(cursor)
	req.NoError(err)
	req.Empty(lastPage)
}

func Test_Delete_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)
	message := diskMessage("t", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	req.NoError(repository.StoreMessage(message))

	req.NoError(repository.DeleteMessage(message.ID))

	_, err := repository.GetMessage(message.ID)
	req.ErrorIs(err, errors.ErrMessageNotFound)
	all, _, err := repository.GetMessages(nil)
	req.NoError(err)
	req.Empty(all)
}

func Test_Get_Messages_Resumes_From_Empty_Page_Cursor(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	// Given an empty store
	empty, cursor, err := repository.GetMessages(nil)
	req.NoError(err)
	req.Empty(empty)
	req.Nil(cursor)

	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	req.NoError(repository.StoreMessage(diskMessage("Alice", at)))
	req.NoError(repository.StoreMessage(diskMessage("Bob", at.Add(time.Minute))))

	// When resuming from the cursor of the empty page
	page, cursor, err := repository.GetMessages(cursor)

	// Then no message is skipped
	req.NoError(err)
	req.Equal([]string{"Alice", "Bob"}, lo.Map(page, func(m DiskMessage, _ int) string { return m.Title }))

	// And an exhausted page keeps its position for messages stored later
	exhausted, next, err := repository.GetMessages(cursor)
	req.NoError(err)
	req.Empty(exhausted)
	req.Equal(cursor, next)

	req.NoError(repository.StoreMessage(diskMessage("Clara", at.Add(2*time.Minute))))
	page, _, err = repository.GetMessages(next)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal("Clara", page[0].Title)
}
