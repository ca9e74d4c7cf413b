package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cre8tlystudio/adminctl/internal/client/client"
	"github.com/cre8tlystudio/adminctl/internal/client/models"
	"github.com/cre8tlystudio/adminctl/internal/commenttree"
	"github.com/cre8tlystudio/adminctl/internal/logging"
)

const communityPrefix = "/admin/community"

var (
	ErrEmptyBody      = errors.New("body must not be empty")
	ErrIncompletePost = errors.New("topic, title and body are required")
)

// CommunityService moderates the community forum.
type CommunityService interface {
	// Topics lists topics, flagging those with posts the admin has not seen.
	Topics(ctx context.Context) ([]models.Topic, error)
	// PostsByTopic lists a topic's posts, flagging unseen ones.
	PostsByTopic(ctx context.Context, topicID models.ID) ([]models.Post, error)
	// Post loads a post with its comment tree and marks it seen.
	Post(ctx context.Context, postID models.ID) (models.PostThread, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) error
	// Reply comments on a post; a zero parentID makes a top-level comment.
	Reply(ctx context.Context, postID, parentID models.ID, body string) error
	EditComment(ctx context.Context, commentID models.ID, body string) error
	DeleteComment(ctx context.Context, commentID models.ID) error
	DeletePost(ctx context.Context, postID models.ID) error
}

type communityService struct {
	client client.Client
	logger logging.Logger
}

func NewCommunityService(c client.Client, l logging.Logger) CommunityService {
	return &communityService{client: c, logger: l}
}

func communityPath(format string, args ...any) string {
	return communityPrefix + fmt.Sprintf(format, args...)
}

func (s *communityService) Topics(ctx context.Context) ([]models.Topic, error) {
	var topics struct {
		Topics []models.Topic `json:"topics"`
	}
	if err := s.client.GetJSON(ctx, communityPath("/topics"), nil, &topics); err != nil {
		return nil, fmt.Errorf("get topics: %w", err)
	}

	var unseen struct {
		ByTopic map[string]models.Count `json:"byTopic"`
	}
	if err := s.client.GetJSON(ctx, communityPath("/unseen-count/by-topic"), nil, &unseen); err != nil {
		return nil, fmt.Errorf("get unseen counts: %w", err)
	}

	for i := range topics.Topics {
		topics.Topics[i].HasNew = unseen.ByTopic[topics.Topics[i].ID.String()] > 0
	}
	return topics.Topics, nil
}

func (s *communityService) PostsByTopic(ctx context.Context, topicID models.ID) ([]models.Post, error) {
	var posts struct {
		Posts []models.Post `json:"posts"`
	}
	if err := s.client.GetJSON(ctx, communityPath("/posts-by-topic/%s", segment(topicID)), nil, &posts); err != nil {
		return nil, fmt.Errorf("get posts of topic %s: %w", topicID, err)
	}

	var unseen struct {
		ByPost map[string]models.Count `json:"byPost"`
	}
	if err := s.client.GetJSON(ctx, communityPath("/unseen-map/%s", segment(topicID)), nil, &unseen); err != nil {
		return nil, fmt.Errorf("get unseen posts of topic %s: %w", topicID, err)
	}

	for i := range posts.Posts {
		posts.Posts[i].HasNew = unseen.ByPost[posts.Posts[i].ID.String()] > 0
	}
	return posts.Posts, nil
}

func (s *communityService) Post(ctx context.Context, postID models.ID) (models.PostThread, error) {
	var resp struct {
		Post     models.Post      `json:"post"`
		Comments []models.Comment `json:"comments"`
	}
	if err := s.client.GetJSON(ctx, communityPath("/post/%s", segment(postID)), nil, &resp); err != nil {
		return models.PostThread{}, fmt.Errorf("get post %s: %w", postID, err)
	}

	if err := s.client.PostJSON(ctx, communityPath("/post/%s/mark-seen", segment(postID)), nil, nil); err != nil {
		s.logger.Warn(ctx, "mark post seen failed", "post_id", postID.String(), "error", err)
	}

	return models.PostThread{
		Post:     resp.Post,
		Comments: commenttree.Build(resp.Comments),
		Total:    len(resp.Comments),
	}, nil
}

func (s *communityService) CreatePost(ctx context.Context, req models.CreatePostRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.TopicID.IsZero() || req.Title == "" || strings.TrimSpace(req.Body) == "" {
		return ErrIncompletePost
	}
	if err := s.client.PostJSON(ctx, communityPath("/post"), req, nil); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (s *communityService) Reply(ctx context.Context, postID, parentID models.ID, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	req := models.CreateCommentRequest{Body: body}
	if !parentID.IsZero() {
		req.ParentID = parentID
	}
	if err := s.client.PostJSON(ctx, communityPath("/post/%s/comment", segment(postID)), req, nil); err != nil {
		return fmt.Errorf("reply to post %s: %w", postID, err)
	}
	return nil
}

func (s *communityService) EditComment(ctx context.Context, commentID models.ID, body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	req := map[string]string{"body": body}
	if err := s.client.PutJSON(ctx, communityPath("/comments/%s", segment(commentID)), req, nil); err != nil {
		return fmt.Errorf("edit comment %s: %w", commentID, err)
	}
	return nil
}

func (s *communityService) DeleteComment(ctx context.Context, commentID models.ID) error {
	if err := s.client.Delete(ctx, communityPath("/comments/%s", segment(commentID)), nil); err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	return nil
}

func (s *communityService) DeletePost(ctx context.Context, postID models.ID) error {
	if err := s.client.Delete(ctx, communityPath("/posts/%s", segment(postID)), nil); err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	return nil
}
