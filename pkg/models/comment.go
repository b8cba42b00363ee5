package models

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/chemmd-engine/pkg/apperrors"
)

// Comment is free text attached to an entity. Comments are never matched by queries.
type Comment struct {
	CommentTitle string  `json:"comment_title"`
	CommentBody  *string `json:"comment_body,omitempty"`
}

// NewComment validates the title and returns a Comment.
func NewComment(title string, body *string) (*Comment, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewParseError("comment_title is required")
	}
	return &Comment{CommentTitle: title, CommentBody: body}, nil
}

func (c *Comment) canonical() string {
	return fmt.Sprintf("Comment(comment_title=%q, comment_body=%s)", c.CommentTitle, fmtStrPtr(c.CommentBody))
}
