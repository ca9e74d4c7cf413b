package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/models"
)

const (
	messagesPath = "/admin/messages"
	// MessagesPageSize is the page length of the message board.
	MessagesPageSize = 20
)

var ErrIncompleteMessage = errors.New("please fill out both title and message")

// MessageService manages the broadcast message board.
type MessageService interface {
	// List returns page n (from 0) and whether another page may follow.
	List(ctx context.Context, page int) ([]models.Message, bool, error)
	Post(ctx context.Context, title, message string) error
	Delete(ctx context.Context, id models.ID) error
}

type messageService struct {
	client client.Client
}

func NewMessageService(c client.Client) MessageService {
	return &messageService{client: c}
}

func (s *messageService) List(ctx context.Context, page int) ([]models.Message, bool, error) {
	if page < 0 {
		page = 0
	}
	query := url.Values{}
	query.Set("offset", strconv.Itoa(page*MessagesPageSize))
	query.Set("limit", strconv.Itoa(MessagesPageSize))

	var messages []models.Message
	if err := s.client.GetJSON(ctx, messagesPath, query, &messages); err != nil {
		return nil, false, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, len(messages) == MessagesPageSize, nil
}

func (s *messageService) Post(ctx context.Context, title, message string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return ErrIncompleteMessage
	}
	req := map[string]string{"title": title, "message": message}
	if err := s.client.PostJSON(ctx, messagesPath, req, nil); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

func (s *messageService) Delete(ctx context.Context, id models.ID) error {
	if err := s.client.Delete(ctx, messagesPath+"/"+segment(id), nil); err != nil {
		return fmt.Errorf("delete message %s: %w", id, err)
	}
	return nil
}
