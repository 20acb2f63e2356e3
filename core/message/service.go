package message

import (
	"errors"
	"net/mail"
	"sort"
	"time"

	"github.com/darasoft/shule/core"
	"github.com/darasoft/shule/core/user"
)

var (
	// errors
	ErrNotFound     = errors.New("Message not found")
	ErrNotRecipient = errors.New("only the recipient may mark a message as read")
)

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		GetMessageByID(id string) (Message, error)
		GetMessagesBySenderID(senderID string) ([]Message, error)
		GetMessagesByRecipientID(recipientID string) ([]Message, error)
		MarkMessageRead(id string) (Message, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, usrRepo user.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, usrRepo: usrRepo, mailSvc: mailSvc}
}

// Query returns all messages the user sent or received, newest first.
func (svc *Service) Query(userID string, unreadOnly bool) ([]Message, error) {
	sent, err := svc.repo.GetMessagesBySenderID(userID)
	if err != nil {
		return nil, err
	}
	received, err := svc.repo.GetMessagesByRecipientID(userID)
	if err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(sent)+len(received))
	messages = append(messages, sent...)
	messages = append(messages, received...)

	if unreadOnly {
		unread := messages[:0]
		for _, m := range messages {
			if m.RecipientID == userID && !m.Read {
				unread = append(unread, m)
			}
		}
		messages = unread
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

// Send records the message and notifies the recipient by email.
func (svc *Service) Send(sender user.User, nm NewMessage) (Message, error) {
	recipient, err := svc.usrRepo.GetUserByID(nm.RecipientID)
	if err != nil {
		return Message{}, err
	}

	msg, err := svc.repo.CreateMessage(Message{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Subject:     nm.Subject,
		Content:     nm.Content,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Message{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: recipient.Name, Address: recipient.Email}},
		Subject: "New message from " + sender.Name,
		BodyStr: nm.Subject + "\n\n" + nm.Content,
	})
	return msg, nil
}

// MarkRead flags a message as read. Only the recipient may do so.
func (svc *Service) MarkRead(id, userID string) (Message, error) {
	msg, err := svc.repo.GetMessageByID(id)
	if err != nil {
		return Message{}, err
	}
	if msg.RecipientID != userID {
		return Message{}, ErrNotRecipient
	}
	return svc.repo.MarkMessageRead(id)
}
