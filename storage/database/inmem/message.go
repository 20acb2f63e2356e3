package inmemdb

import (
	"github.com/google/uuid"

	"github.com/darasoft/shule/core/message"
)

type messageRepository struct {
	db *messageTable
}

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	msg.ID = uuid.New().String()
	repo.db.table[msg.ID] = &msg
	return msg, nil
}

func (repo *messageRepository) GetMessageByID(id string) (message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if msg, ok := repo.db.table[id]; ok {
		return *msg, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) GetMessagesBySenderID(senderID string) ([]message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	messages := make([]message.Message, 0)
	for _, msg := range repo.db.table {
		if msg.SenderID == senderID {
			messages = append(messages, *msg)
		}
	}
	return messages, nil
}

func (repo *messageRepository) GetMessagesByRecipientID(recipientID string) ([]message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	messages := make([]message.Message, 0)
	for _, msg := range repo.db.table {
		if msg.RecipientID == recipientID {
			messages = append(messages, *msg)
		}
	}
	return messages, nil
}

func (repo *messageRepository) MarkMessageRead(id string) (message.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	msg, ok := repo.db.table[id]
	if !ok {
		return message.Message{}, message.ErrNotFound
	}
	msg.Read = true
	return *msg, nil
}
