package models

import "time"

type Topic struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	HasNew bool   `json:"-"`
}

type Post struct {
	ID          ID        `json:"id"`
	TopicID     ID        `json:"topic_id"`
	TopicName   string    `json:"topic_name,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Author      string    `json:"author"`
	AuthorRole  string    `json:"author_role,omitempty"`
	AuthorImage string    `json:"author_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	HasNew      bool      `json:"-"`
}

// Comment is one flat comment record as the API returns it. A zero ParentID
// marks a top-level comment.
type Comment struct {
	ID        ID        `json:"id"`
	PostID    ID        `json:"post_id,omitempty"`
	ParentID  ID        `json:"parent_id"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	UserID    ID        `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentNode is a comment with its replies, in input order.
type CommentNode struct {
	Comment
	Children []*CommentNode `json:"children"`
}

// PostThread is a post with its comments arranged as a reply forest.
type PostThread struct {
	Post     Post
	Comments []*CommentNode
	Total    int
}

type CreatePostRequest struct {
	TopicID ID     `json:"topic_id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

type CreateCommentRequest struct {
	Body     string `json:"body"`
	ParentID ID     `json:"parent_id,omitempty"`
}
