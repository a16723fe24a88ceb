package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionLeaveApprove))
	assert.True(t, HasPermission(RoleManager, PermissionAttendanceViewAll))
	assert.True(t, HasPermission(RoleEmployee, PermissionLeaveCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionLeaveApprove))
	assert.False(t, HasPermission(Role("guest"), PermissionLeaveViewOwn))
}

func TestUser_IsLocked(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	u := User{}
	assert.False(t, u.IsLocked(now))

	until := now.Add(time.Minute)
	u.LockedUntil = &until
	assert.True(t, u.IsLocked(now))
	assert.False(t, u.IsLocked(until))
}
