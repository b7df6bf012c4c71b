package user

import (
	"context"
	"fmt"
)

// Store is the persistence surface the admin service needs.
type Store interface {
	UpdateStatus(ctx context.Context, ids []int64, status Status) (int64, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
	List(ctx context.Context) ([]User, error)
}

// Service implements the administrative bulk operations on accounts
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Block marks the given users as blocked and returns how many rows changed
func (s *Service) Block(ctx context.Context, ids []int64) (int64, error) {
	return s.SetStatus(ctx, ids, StatusBlocked)
}

// Unblock marks the given users as active and returns how many rows changed
func (s *Service) Unblock(ctx context.Context, ids []int64) (int64, error) {
	return s.SetStatus(ctx, ids, StatusActive)
}

// SetStatus updates the status of all matching users atomically.
// Ids that match no row are ignored; a zero count is not an error.
func (s *Service) SetStatus(ctx context.Context, ids []int64, status Status) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	ids, err := normalizeIDs(ids)
	if err != nil {
		return 0, err
	}

	count, err := s.store.UpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, fmt.Errorf("failed to set status %s: %w", status, err)
	}

	return count, nil
}

// Delete removes all matching users and returns how many rows were removed
func (s *Service) Delete(ctx context.Context, ids []int64) (int64, error) {
	ids, err := normalizeIDs(ids)
	if err != nil {
		return 0, err
	}

	count, err := s.store.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete users: %w", err)
	}

	return count, nil
}

// List returns every account. Password hashes never leave the service.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, nil
}

// normalizeIDs rejects empty lists and non-positive ids, and drops duplicates
// while keeping the caller's order.
func normalizeIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: user IDs should be a non-empty array", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: user ID %d is not valid", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out, nil
}
