// Package storage provides the participant directory used to resolve who
// takes part in an expense.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitshare/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the directory operations the service layer needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer. It never stores computed splits.
type Store interface {
	// CreateGroup persists a new group with its members in order.
	// The group ID, CreatedAt and any missing member IDs are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its ordered members.
	// Returns an error wrapping ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves every group, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends members that are not already in the group and
	// returns the ones actually added, with IDs populated.
	AddGroupMembers(ctx context.Context, groupID string, members []models.Participant) ([]models.Participant, error)

	// Close releases any resources held by the store.
	Close() error
}
