// Package fixtures holds the defaults seeded for a newly signed-up tenant.
package fixtures

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/leave"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed leave_types.yaml
var leaveTypesYAML []byte

type LeaveTypeDefault struct {
	Code            string          `yaml:"code"`
	Name            string          `yaml:"name"`
	PolicyGroup     string          `yaml:"policy_group"`
	EntitlementDays decimal.Decimal `yaml:"entitlement_days"`
}

// LeaveType converts the default into an entity for tenantID.
func (d LeaveTypeDefault) LeaveType(tenantID string) leave.LeaveType {
	return leave.LeaveType{
		TenantID:    tenantID,
		Code:        d.Code,
		Name:        d.Name,
		PolicyGroup: d.PolicyGroup,
		IsActive:    true,
	}
}

type leaveTypesFile struct {
	LeaveTypes []LeaveTypeDefault `yaml:"leave_types"`
}

var loadLeaveTypes = sync.OnceValues(func() ([]LeaveTypeDefault, error) {
	return ParseLeaveTypes(leaveTypesYAML)
})

// DefaultLeaveTypes returns the embedded leave type defaults.
func DefaultLeaveTypes() ([]LeaveTypeDefault, error) {
	return loadLeaveTypes()
}

// ParseLeaveTypes reads a leave type fixture document.
func ParseLeaveTypes(data []byte) ([]LeaveTypeDefault, error) {
	var file leaveTypesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("fixtures: parse leave types: %w", err)
	}

	seen := make(map[string]struct{}, len(file.LeaveTypes))
	for i, lt := range file.LeaveTypes {
		code := strings.ToUpper(strings.TrimSpace(lt.Code))
		if code == "" || strings.TrimSpace(lt.Name) == "" {
			return nil, fmt.Errorf("fixtures: leave type %d needs a code and a name", i)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("fixtures: duplicate leave type code %q", code)
		}
		if lt.EntitlementDays.IsNegative() {
			return nil, fmt.Errorf("fixtures: leave type %q has a negative entitlement", code)
		}
		seen[code] = struct{}{}
		file.LeaveTypes[i].Code = code
		if file.LeaveTypes[i].PolicyGroup == "" {
			file.LeaveTypes[i].PolicyGroup = "default"
		}
	}
	return file.LeaveTypes, nil
}
