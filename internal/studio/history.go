package studio

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/history"
	"github.com/Faultbox/voxelforge/internal/logger"
)

// History lists recorded generations, newest first.
func (s *Studio) History(ctx context.Context) ([]history.Entry, error) {
	return s.history.List(ctx)
}

// SelectHistory replays the entry with the given id.
func (s *Studio) SelectHistory(ctx context.Context, id string) error {
	e, err := s.history.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.replay(e)
}

// NextHistory replays entries in turn, starting from the newest.
// It returns history.ErrNotFound when the log is empty.
func (s *Studio) NextHistory(ctx context.Context) error {
	entries, err := s.history.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return history.ErrNotFound
	}

	s.mu.Lock()
	i := s.historyCursor % len(entries)
	s.historyCursor = i + 1
	s.mu.Unlock()

	return s.replay(entries[i])
}

func (s *Studio) replay(e history.Entry) error {
	set, err := e.Set()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	logger.Info("replaying history entry", zap.String("id", e.ID), zap.String("name", e.Name))
	s.ctrl.RequestModel(set, e.Name)
	return nil
}

// RemoveHistory deletes one entry.
func (s *Studio) RemoveHistory(ctx context.Context, id string) error {
	return s.history.Remove(ctx, id)
}

// ClearHistory deletes every entry.
func (s *Studio) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}
