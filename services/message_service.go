package services

import (
	"fmt"
	"log/slog"
	"message-lab/domain"
	"message-lab/errors"
	"message-lab/repositories"
	"message-lab/runtime"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageService interface {
	Create(cmd domain.CreateMessageCommand) (uuid.UUID, error)
	Get(id uuid.UUID) (*domain.Message, error)
	List(cursor *string) ([]*domain.Message, *string, error)
	Call(cmd domain.CallCommand) (any, error)
	DefineProperty(cmd domain.DefinePropertyCommand) (bool, error)
	SetProperty(cmd domain.SetPropertyCommand) error
	DeleteProperty(cmd domain.DeletePropertyCommand) (bool, error)
	OwnKeys(id uuid.UUID) ([]string, error)
	Descriptor(id uuid.UUID, key string) (domain.PropertyDescriptor, bool, error)
	Delete(id uuid.UUID) error
}

// MessageService builds messages by name, applies named operations to them
// and persists every successful mutation.
type MessageService struct {
	log        *slog.Logger
	registry   *runtime.Registry
	repository repositories.IMessageRepository
	now        func() time.Time
}

func NewMessageService(log *slog.Logger, registry *runtime.Registry, repository repositories.IMessageRepository) *MessageService {
	return &MessageService{log: log, registry: registry, repository: repository, now: time.Now}
}

func (s *MessageService) Create(cmd domain.CreateMessageCommand) (uuid.UUID, error) {
	value, err := s.registry.Construct(domain.MessageTypeName, cmd.Title, cmd.Text)
	if err != nil {
		return uuid.Nil, err
	}
	msg, ok := value.(*domain.Message)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: constructor returned %T", errors.ErrInvalidArgument, value)
	}
	id := uuid.New()
	if err = s.repository.StoreMessage(toDiskMessage(id, s.now().UTC(), msg)); err != nil {
		return uuid.Nil, err
	}
	s.log.Info("Message created", "id", id, "title", msg.Title)
	return id, nil
}

func (s *MessageService) Get(id uuid.UUID) (*domain.Message, error) {
	_, msg, err := s.load(id)
	return msg, err
}

func (s *MessageService) List(cursor *string) ([]*domain.Message, *string, error) {
	diskMessages, next, err := s.repository.GetMessages(cursor)
	if err != nil {
		return nil, nil, err
	}
	return lo.Map(diskMessages, func(item repositories.DiskMessage, _ int) *domain.Message {
		return fromDiskMessage(item)
	}), next, nil
}

// Call invokes a registered method on a stored message. Methods only read
// the message, so nothing is persisted.
func (s *MessageService) Call(cmd domain.CallCommand) (any, error) {
	if err := domain.ValidateCommand(cmd); err != nil {
		return nil, err
	}
	_, msg, err := s.load(cmd.MessageID)
	if err != nil {
		return nil, err
	}
	return s.registry.Apply(msg, cmd.Method, cmd.Args...)
}

func (s *MessageService) DefineProperty(cmd domain.DefinePropertyCommand) (bool, error) {
	if err := domain.ValidateCommand(cmd); err != nil {
		return false, err
	}
	disk, msg, err := s.load(cmd.MessageID)
	if err != nil {
		return false, err
	}
	if !msg.DefineProperty(cmd.Key, cmd.Descriptor) {
		s.log.Debug("Property definition refused", "id", cmd.MessageID, "key", cmd.Key)
		return false, nil
	}
	return true, s.save(disk, msg)
}

func (s *MessageService) SetProperty(cmd domain.SetPropertyCommand) error {
	if err := domain.ValidateCommand(cmd); err != nil {
		return err
	}
	disk, msg, err := s.load(cmd.MessageID)
	if err != nil {
		return err
	}
	if err = msg.Set(cmd.Key, cmd.Value); err != nil {
		return err
	}
	return s.save(disk, msg)
}

func (s *MessageService) DeleteProperty(cmd domain.DeletePropertyCommand) (bool, error) {
	if err := domain.ValidateCommand(cmd); err != nil {
		return false, err
	}
	disk, msg, err := s.load(cmd.MessageID)
	if err != nil {
		return false, err
	}
	existed := lo.Contains(msg.OwnKeys(), cmd.Key)
	if !msg.DeleteProperty(cmd.Key) {
		return false, nil
	}
	if !existed {
		return true, nil
	}
	return true, s.save(disk, msg)
}

func (s *MessageService) OwnKeys(id uuid.UUID) ([]string, error) {
	_, msg, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return msg.OwnKeys(), nil
}

func (s *MessageService) Descriptor(id uuid.UUID, key string) (domain.PropertyDescriptor, bool, error) {
	_, msg, err := s.load(id)
	if err != nil {
		return domain.PropertyDescriptor{}, false, err
	}
	desc, ok := msg.GetOwnPropertyDescriptor(key)
	return desc, ok, nil
}

func (s *MessageService) Delete(id uuid.UUID) error {
	if err := s.repository.DeleteMessage(id); err != nil {
		return err
	}
	s.log.Info("Message deleted", "id", id)
	return nil
}

func (s *MessageService) load(id uuid.UUID) (repositories.DiskMessage, *domain.Message, error) {
	disk, err := s.repository.GetMessage(id)
	if err != nil {
		return repositories.DiskMessage{}, nil, err
	}
	return disk, fromDiskMessage(disk), nil
}

// save keeps the creation time so the message is overwritten in place.
func (s *MessageService) save(disk repositories.DiskMessage, msg *domain.Message) error {
	if err := s.repository.StoreMessage(toDiskMessage(disk.ID, disk.At, msg)); err != nil {
		return err
	}
	s.log.Debug("Message updated", "id", disk.ID, "keys", msg.OwnKeys())
	return nil
}

func toDiskMessage(id uuid.UUID, at time.Time, msg *domain.Message) repositories.DiskMessage {
	disk := repositories.DiskMessage{
		ID:         id,
		Title:      msg.Title,
		Text:       msg.Text,
		Extensible: msg.IsExtensible(),
		At:         at,
	}
	for _, key := range msg.OwnKeys() {
		if key == domain.KeyTitle || key == domain.KeyText {
			continue
		}
		desc, _ := msg.GetOwnPropertyDescriptor(key)
		if disk.Properties == nil {
			disk.Properties = make(map[string]repositories.DiskProperty)
		}
		disk.Properties[key] = repositories.DiskProperty(desc)
		disk.Order = append(disk.Order, key)
	}
	return disk
}

func fromDiskMessage(disk repositories.DiskMessage) *domain.Message {
	msg := domain.NewMessage(disk.Title, disk.Text)
	for _, key := range disk.Order {
		msg.DefineProperty(key, domain.PropertyDescriptor(disk.Properties[key]))
	}
	if !disk.Extensible {
		msg.PreventExtensions()
	}
	return msg
}
