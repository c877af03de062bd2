package models

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// ModuleName identifies one of the monitored system categories that must
// submit a checklist every day.
type ModuleName string

const (
	ModuleVeeam      ModuleName = "veeam"
	ModuleVsan       ModuleName = "vsan"
	ModuleSolarwinds ModuleName = "solarwinds"
	ModuleCheckpoint ModuleName = "checkpoint"
)

// RequiredModules is the fixed ordered set a day must cover to pass.
// Order here is the user-facing order of missing-module lists.
var RequiredModules = []ModuleName{
	ModuleVeeam,
	ModuleVsan,
	ModuleSolarwinds,
	ModuleCheckpoint,
}

// NormalizeModule lowercases a raw module token. No fuzzy matching:
// unknown tokens come back as-is (lowercased) and simply never satisfy
// a required-module slot.
func NormalizeModule(raw string) ModuleName {
	return ModuleName(strings.ToLower(strings.TrimSpace(raw)))
}

func (m ModuleName) IsRequired() bool {
	for _, r := range RequiredModules {
		if m == r {
			return true
		}
	}
	return false
}

func (m ModuleName) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *ModuleName) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*m = NormalizeModule(v)
	case []byte:
		*m = NormalizeModule(string(v))
	default:
		return errors.New("module name must be string")
	}
	return nil
}

type UserRole string

const (
	UserRoleAdmin    UserRole = "A"
	UserRoleEngineer UserRole = "E"
)

// QuickFilter names the date shortcuts of the checklist table.
type QuickFilter string

const (
	QuickFilterNone          QuickFilter = ""
	QuickFilterToday         QuickFilter = "today"
	QuickFilterTodayAlerts   QuickFilter = "todayAlerts"
	QuickFilterTodayNoAlerts QuickFilter = "todayNoAlerts"
)
