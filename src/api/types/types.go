package types

import "time"

// Status is the local workflow state of a submission.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
	StatusCanceled   Status = "Canceled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// Submission is the merged view served to the dashboard. Content fields come
// from the board, workflow fields from the local store.
type Submission struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Industry         string `json:"industry"`
	AcademicStanding string `json:"academicStanding"`
	LookingFor       string `json:"lookingFor"`
	Resume           string `json:"resume"`
	HowTheyHeard     string `json:"howTheyHeard"`
	Availability     string `json:"availability"`
	Timeline         string `json:"timeline"`
	OtherInfo        string `json:"otherInfo"`
	Submitted        string `json:"submitted"`
	SubmittedTS      int64  `json:"submitted_ts"`
	Status           Status `json:"status"`
	PickedBy         string `json:"pickedBy"`
	PickedByEmail    string `json:"pickedByEmail"`
	EventID          string `json:"event_id"`
}

// SubmissionRecord is a row of the local workflow table. Column names match
// the table the dashboard has always written to.
type SubmissionRecord struct {
	ID               string `gorm:"column:id;primaryKey;size:64" json:"id"`
	Name             string `gorm:"column:name" json:"name"`
	Email            string `gorm:"column:email" json:"email"`
	Phone            string `gorm:"column:phone" json:"phone"`
	Industry         string `gorm:"column:industry" json:"industry"`
	AcademicStanding string `gorm:"column:academicStanding" json:"academicStanding"`
	LookingFor       string `gorm:"column:lookingFor" json:"lookingFor"`
	Resume           string `gorm:"column:resume" json:"resume"`
	HowTheyHeard     string `gorm:"column:howTheyHeard" json:"howTheyHeard"`
	Availability     string `gorm:"column:availability" json:"availability"`
	Timeline         string `gorm:"column:timeline" json:"timeline"`
	OtherInfo        string `gorm:"column:otherInfo" json:"otherInfo"`
	Submitted        string `gorm:"column:submitted;size:64" json:"submitted"`
	Status           Status `gorm:"column:status;size:32" json:"status"`
	PickedBy         string `gorm:"column:pickedBy" json:"pickedBy"`
	PickedByEmail    string `gorm:"column:pickedByEmail" json:"pickedByEmail"`
	EventID          string `gorm:"column:event_id;size:256" json:"event_id"`
	UpdatedAt        string `gorm:"column:updated_at;size:64" json:"updated_at"`
}

func (SubmissionRecord) TableName() string { return "admin_submissions" }

// FromSubmission copies the content fields of a board item into a record.
func FromSubmission(s Submission) SubmissionRecord {
	return SubmissionRecord{
		ID:               s.ID,
		Name:             s.Name,
		Email:            s.Email,
		Phone:            s.Phone,
		Industry:         s.Industry,
		AcademicStanding: s.AcademicStanding,
		LookingFor:       s.LookingFor,
		Resume:           s.Resume,
		HowTheyHeard:     s.HowTheyHeard,
		Availability:     s.Availability,
		Timeline:         s.Timeline,
		OtherInfo:        s.OtherInfo,
		Submitted:        s.Submitted,
		Status:           s.Status,
		PickedBy:         s.PickedBy,
		PickedByEmail:    s.PickedByEmail,
		EventID:          s.EventID,
	}
}

// Mentor audit actions
const (
	ActionLogin   = "login"
	ActionPropose = "propose"
	ActionMessage = "message"
	ActionDone    = "done"
)

// MentorAction is an append-only audit entry.
type MentorAction struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:256;index;not null" json:"email"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Details   string    `gorm:"type:text" json:"details"`
}

func (MentorAction) TableName() string { return "mentor_actions" }

// Admin is a dashboard administrator allowed to use the password login.
type Admin struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"size:256;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	CreatedAt    time.Time
}

func (Admin) TableName() string { return "admin" }
