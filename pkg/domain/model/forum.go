package model

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("forum post not found")

type Answer struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type ForumPost struct {
	ID       int64     `json:"id"`
	Question string    `json:"question"`
	Category string    `json:"category"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	Answers  []Answer  `json:"answers"`
}

type ForumPostRepository interface {
	NextID() (int64, error)
	Create(post *ForumPost) error
	Update(post *ForumPost) error
	Find(id int64) (*ForumPost, error)
	List() ([]ForumPost, error)
}
