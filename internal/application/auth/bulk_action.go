package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/baechuer/user-mgmt-service/internal/domain"
)

const (
	ActionBlock            = "block"
	ActionUnblock          = "unblock"
	ActionDelete           = "delete"
	ActionDeleteUnverified = "deleteUnverified"
)

type BulkActionResult struct {
	Action   string
	Affected int64
}

// BulkAction applies one admin action to a set of user IDs in a single
// statement. IDs with no matching row are skipped silently. The caller
// may target their own account; the change bites on their next guarded
// request.
func (s *Service) BulkAction(ctx context.Context, action string, userIDs []string) (BulkActionResult, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return BulkActionResult{}, domain.ErrMissingField("action")
	}

	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return BulkActionResult{}, domain.ErrMissingField("userIds")
	}

	var (
		n   int64
		err error
	)
	switch action {
	case ActionBlock:
		n, err = s.users.SetStatusBulk(ctx, ids, domain.StatusBlocked)
	case ActionUnblock:
		n, err = s.users.SetStatusBulk(ctx, ids, domain.StatusActive)
	case ActionDelete:
		n, err = s.users.DeleteBulk(ctx, ids)
	case ActionDeleteUnverified:
		n, err = s.users.DeleteUnverifiedBulk(ctx, ids)
	default:
		return BulkActionResult{}, domain.ErrInvalidAction(action)
	}
	if err != nil {
		return BulkActionResult{}, err
	}

	s.audit("admin.bulk_action", map[string]string{
		"action":    action,
		"requested": strconv.Itoa(len(ids)),
		"affected":  strconv.FormatInt(n, 10),
	})

	return BulkActionResult{Action: action, Affected: n}, nil
}
