package service

import (
	"errors"
	"strings"
	"time"

	"farmconnect/pkg/domain/model"
)

var ErrPostIncomplete = errors.New("question and author are required")

type ForumService interface {
	Ask(question, category, author string) (*model.ForumPost, error)
	Answer(postID int64, author, text string) (*model.ForumPost, error)
	List() ([]model.ForumPost, error)
}

func NewForumService(repo model.ForumPostRepository, dispatcher EventDispatcher) ForumService {
	return &forumService{repo: repo, dispatcher: dispatcher}
}

type forumService struct {
	repo       model.ForumPostRepository
	dispatcher EventDispatcher
}

func (s *forumService) Ask(question, category, author string) (*model.ForumPost, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(author) == "" {
		return nil, ErrPostIncomplete
	}

	id, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	post := &model.ForumPost{
		ID:       id,
		Question: question,
		Category: category,
		Author:   author,
		Date:     time.Now().UTC(),
		Answers:  []model.Answer{},
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.ForumPostCreated{PostID: id, Author: author})
	return post, nil
}

func (s *forumService) Answer(postID int64, author, text string) (*model.ForumPost, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(author) == "" {
		return nil, ErrPostIncomplete
	}

	post, err := s.repo.Find(postID)
	if err != nil {
		return nil, err
	}

	post.Answers = append(post.Answers, model.Answer{Author: author, Text: text, Date: time.Now().UTC()})
	if err := s.repo.Update(post); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.ForumPostAnswered{PostID: postID, Author: author})
	return post, nil
}

func (s *forumService) List() ([]model.ForumPost, error) {
	return s.repo.List()
}
