package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one filled-out checklist form for one module, persisted as a
// row with its module-shaped payload as a JSON column. Rows are insert-only;
// the aggregation core never mutates them.
type Submission struct {
	ID          string            `gorm:"primary_key;size:36" json:"id"`
	Module      ModuleName        `gorm:"size:30;index" json:"module"`
	Engineer    string            `gorm:"size:100" json:"engineer"`
	ClientNames StringList        `gorm:"type:json" json:"client_names"`
	Payload     SubmissionPayload `gorm:"type:json" json:"payload"`
	// Passed is an explicit producer-supplied verdict. nil means "derive
	// from the payload"; false forces the submission to count as alert-bearing.
	Passed    *bool     `json:"passed"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Module = NormalizeModule(string(s.Module))
	return nil
}

// ModuleKey returns the lowercased module token.
func (s Submission) ModuleKey() ModuleName {
	return NormalizeModule(string(s.Module))
}

// HasAlerts decides whether the submission carries one or more alerts.
// Decision order: explicit Passed=false wins, then any recognized alert
// signal in the module payload.
func (s Submission) HasAlerts() bool {
	if s.Passed != nil && !*s.Passed {
		return true
	}
	return s.Payload.alertSignal()
}

// searchText is the haystack for the free-text filter: engineer, module,
// client names and the stringified payload.
func (s Submission) searchText() string {
	parts := []string{s.Engineer, string(s.Module)}
	parts = append(parts, s.ClientNames...)
	if raw, err := json.Marshal(s.Payload); err == nil {
		parts = append(parts, string(raw))
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// StringList is a JSON-encoded list column (client names on a submission).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	return string(raw), err
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSONColumn(value, l)
}

// SubmissionPayload is the tagged union of module-shaped checklist payloads.
// Exactly one variant is expected to be set, matching the submission's
// module; the classifier treats absent variants as "no signal".
type SubmissionPayload struct {
	Veeam      *VeeamPayload      `json:"veeam,omitempty"`
	Vsan       *VsanPayload       `json:"vsan,omitempty"`
	Solarwinds *SolarwindsPayload `json:"solarwinds,omitempty"`
	Checkpoint *CheckpointPayload `json:"checkpoint,omitempty"`
}

func (p SubmissionPayload) Value() (driver.Value, error) {
	raw, err := json.Marshal(p)
	return string(raw), err
}

func (p *SubmissionPayload) Scan(value interface{}) error {
	return scanJSONColumn(value, p)
}

func (p SubmissionPayload) alertSignal() bool {
	switch {
	case p.Veeam != nil:
		return p.Veeam.alertSignal()
	case p.Vsan != nil:
		return p.Vsan.alertSignal()
	case p.Solarwinds != nil:
		return p.Solarwinds.alertSignal()
	case p.Checkpoint != nil:
		return p.Checkpoint.alertSignal()
	}
	return false
}

// alertFlagSet reports whether an "alerts generated" form field says yes.
// The forms send free text; comparison is case-insensitive.
func alertFlagSet(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "yes")
}

type VeeamPayload struct {
	AlertsGenerated string       `json:"alerts_generated"`
	Alerts          []VeeamAlert `json:"alerts,omitempty"`
	Notes           string       `json:"notes"`
}

type VeeamAlert struct {
	Client      string `json:"client"`
	VbrServer   string `json:"vbr_server"`
	JobName     string `json:"job_name"`
	Details     string `json:"details"`
	ActionTaken string `json:"action_taken"`
	TicketRef   string `json:"ticket_ref"`
}

func (p VeeamPayload) alertSignal() bool {
	return alertFlagSet(p.AlertsGenerated) || len(p.Alerts) > 0
}

type VsanPayload struct {
	AlertsGenerated string      `json:"alerts_generated"`
	Alerts          []VsanAlert `json:"alerts,omitempty"`
	Notes           string      `json:"notes"`
}

type VsanAlert struct {
	Client      string `json:"client"`
	Cluster     string `json:"cluster"`
	AlertName   string `json:"alert_name"`
	Severity    string `json:"severity"`
	ActionTaken string `json:"action_taken"`
	TicketRef   string `json:"ticket_ref"`
}

func (p VsanPayload) alertSignal() bool {
	return alertFlagSet(p.AlertsGenerated) || len(p.Alerts) > 0
}

type SolarwindsPayload struct {
	AlertsGenerated string            `json:"alerts_generated"`
	Alerts          []SolarwindsAlert `json:"alerts,omitempty"`
	Notes           string            `json:"notes"`
}

type SolarwindsAlert struct {
	Client      string `json:"client"`
	Node        string `json:"node"`
	AlertType   string `json:"alert_type"`
	Details     string `json:"details"`
	ActionTaken string `json:"action_taken"`
	TicketRef   string `json:"ticket_ref"`
}

func (p SolarwindsPayload) alertSignal() bool {
	return alertFlagSet(p.AlertsGenerated) || len(p.Alerts) > 0
}

type CheckpointPayload struct {
	AlertsGenerated string            `json:"alerts_generated"`
	Alerts          []CheckpointAlert `json:"alerts,omitempty"`
	Notes           string            `json:"notes"`
}

type CheckpointAlert struct {
	Client      string `json:"client"`
	Gateway     string `json:"gateway"`
	Blade       string `json:"blade"`
	Details     string `json:"details"`
	ActionTaken string `json:"action_taken"`
	TicketRef   string `json:"ticket_ref"`
}

func (p CheckpointPayload) alertSignal() bool {
	return alertFlagSet(p.AlertsGenerated) || len(p.Alerts) > 0
}

func scanJSONColumn(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported JSON column type")
	}
}
