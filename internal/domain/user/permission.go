package user

type Permission string

const (
	PermissionLeaveViewOwn      Permission = "leave.view_own"
	PermissionLeaveCreate       Permission = "leave.create"
	PermissionLeaveViewAll      Permission = "leave.view_all"
	PermissionLeaveApprove      Permission = "leave.approve"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionEmployeeViewAll   Permission = "employee.view_all"
)

var managerPermissions = []Permission{
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionLeaveViewAll,
	PermissionLeaveApprove,
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
	PermissionAttendanceViewAll,
	PermissionEmployeeViewAll,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner:   managerPermissions,
	RoleAdmin:   managerPermissions,
	RoleManager: managerPermissions,

	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
