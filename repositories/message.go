//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"fmt"
	"log/slog"
	"message-lab/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	messagePrefix = "msg:"
	indexPrefix   = "idx:msg:"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	GetMessage(id uuid.UUID) (DiskMessage, error)
	GetMessages(cursor *string) ([]DiskMessage, *string, error)
	DeleteMessage(id uuid.UUID) error
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskProperty struct {
	Value        any
	Writable     bool
	Enumerable   bool
	Configurable bool
}

type DiskMessage struct {
	ID         uuid.UUID
	Title      string
	Text       string
	Extensible bool
	Properties map[string]DiskProperty
	Order      []string
	At         time.Time
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{timestamp_padded}:{uuid}" so a prefix scan
// returns messages by creation time, and "idx:msg:{uuid}" points to it.
// Storing the same message again overwrites it in place as long as At is kept.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	key := messageKey(message)
	value, err := fromDiskMessage(message)
	if err != nil {
		return err
	}
	raw, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, raw); err != nil {
			return err
		}
		return txn.Set(indexKey(message.ID), key)
	})
}

func (m MessageRepository) GetMessage(id uuid.UUID) (DiskMessage, error) {
	var raw []byte
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := resolve(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return DiskMessage{}, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	if err != nil {
		return DiskMessage{}, err
	}
	return decode(raw)
}

// GetMessages scans messages from the oldest one, or from right after the
// cursor returned by a previous call. It stops once limitMessages is reached.
// A page without messages hands the incoming cursor back unchanged.
func (m MessageRepository) GetMessages(cursor *string) ([]DiskMessage, *string, error) {
	var byteMessages [][]byte
	lastKey := cursor
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append([]byte(messagePrefix), []byte(*cursor)...)
		}
		it.Seek(seekKey)
		if cursor != nil && it.Valid() && bytes.Equal(it.Item().Key(), seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = lo.ToPtr(string(item.Key()[len(prefix):]))
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	diskMessages := make([]DiskMessage, 0, len(byteMessages))
	for _, b := range byteMessages {
		message, err := decode(b)
		if err != nil {
			return nil, nil, err
		}
		diskMessages = append(diskMessages, message)
	}
	return diskMessages, lastKey, nil
}

func (m MessageRepository) DeleteMessage(id uuid.UUID) error {
	err := m.db.Update(func(txn *badger.Txn) error {
		key, err := resolve(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(id))
	})
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	return err
}

func messageKey(message DiskMessage) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix, message.At.UnixNano(), message.ID))
}

func indexKey(id uuid.UUID) []byte {
	return []byte(indexPrefix + id.String())
}

func resolve(txn *badger.Txn, id uuid.UUID) ([]byte, error) {
	item, err := txn.Get(indexKey(id))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func decode(raw []byte) (DiskMessage, error) {
	var value structpb.Struct
	if err := proto.Unmarshal(raw, &value); err != nil {
		return DiskMessage{}, err
	}
	return toDiskMessage(&value)
}

func fromDiskMessage(message DiskMessage) (*structpb.Struct, error) {
	properties := make([]any, 0, len(message.Order))
	for _, key := range message.Order {
		p, ok := message.Properties[key]
		if !ok {
			return nil, fmt.Errorf("%w: property %s listed but missing", errors.ErrUnknownProperty, key)
		}
		properties = append(properties, map[string]any{
			"key":          key,
			"value":        p.Value,
			"writable":     p.Writable,
			"enumerable":   p.Enumerable,
			"configurable": p.Configurable,
		})
	}
	value, err := structpb.NewStruct(map[string]any{
		"id":         message.ID.String(),
		"title":      message.Title,
		"text":       message.Text,
		"extensible": message.Extensible,
		"properties": properties,
		"at":         message.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	return value, nil
}

func toDiskMessage(value *structpb.Struct) (DiskMessage, error) {
	fields := value.AsMap()
	parsedID, err := uuid.Parse(asString(fields["id"]))
	if err != nil {
		return DiskMessage{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, asString(fields["at"]))
	if err != nil {
		return DiskMessage{}, err
	}
	var properties map[string]DiskProperty
	var order []string
	rawProperties, _ := fields["properties"].([]any)
	for _, raw := range rawProperties {
		p, _ := raw.(map[string]any)
		key := asString(p["key"])
		if properties == nil {
			properties = make(map[string]DiskProperty, len(rawProperties))
		}
		properties[key] = DiskProperty{
			Value:        p["value"],
			Writable:     asBool(p["writable"]),
			Enumerable:   asBool(p["enumerable"]),
			Configurable: asBool(p["configurable"]),
		}
		order = append(order, key)
	}
	return DiskMessage{
		ID:         parsedID,
		Title:      asString(fields["title"]),
		Text:       asString(fields["text"]),
		Extensible: asBool(fields["extensible"]),
		Properties: properties,
		Order:      order,
		At:         at,
	}, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
