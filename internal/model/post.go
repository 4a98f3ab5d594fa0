// Package model defines core data structures and types for kimchi posts and their drafts.
package model

import (
	"errors"
	"fmt"
	"strings"
)

type PostType string

const (
	PostTypeRecipe PostType = "recipe"
	PostTypeFree   PostType = "free"
	PostTypeQnA    PostType = "qna"
	PostTypeReview PostType = "review"
	PostTypeDiary  PostType = "diary"
)

var ErrInvalidPostType = errors.New("invalid post type")

var postTypes = []PostType{
	PostTypeRecipe,
	PostTypeFree,
	PostTypeQnA,
	PostTypeReview,
	PostTypeDiary,
}

// AllPostTypes returns the post types in board order.
func AllPostTypes() []PostType {
	out := make([]PostType, len(postTypes))
	copy(out, postTypes)
	return out
}

func ParsePostType(s string) (PostType, error) {
	candidate := PostType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range postTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPostType, s)
}

func (t PostType) Valid() bool {
	for _, known := range postTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t PostType) String() string {
	return string(t)
}
