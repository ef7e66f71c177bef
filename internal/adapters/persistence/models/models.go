package models

import (
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Employees & Auth
// ============================================================

// Employee represents the employees table. Employee is the root aggregate:
// every other entity is owned by exactly one employee (its creator) and may
// reference a second employee (approver/recipient) as a non-owning
// association.
type Employee struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	FirstName          string         `gorm:"size:100;not null" json:"first_name"`
	LastName           string         `gorm:"size:100;not null" json:"last_name"`
	Department         string         `gorm:"size:100;index" json:"department"`
	Position           string         `gorm:"size:100" json:"position"`
	Country            string         `gorm:"size:100" json:"country"`
	Email              string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password           string         `gorm:"size:255;not null" json:"-"`
	Role               domain.Role    `gorm:"size:20;not null;default:'Staff'" json:"role"`
	ReportingManagerID *uint          `gorm:"index" json:"reporting_manager"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Deleting a manager must never cascade to dependents; the reference
	// is nulled instead.
	ReportingManager *Employee `gorm:"foreignKey:ReportingManagerID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}

// FullName returns the employee's display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeResponse DTO
type EmployeeResponse struct {
	ID                 uint      `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Department         string    `json:"department"`
	Position           string    `json:"position"`
	Country            string    `json:"country"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	ReportingManagerID *uint     `json:"reporting_manager"`
	CreatedAt          time.Time `json:"created_at"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		ID:                 e.ID,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Department:         e.Department,
		Position:           e.Position,
		Country:            e.Country,
		Email:              e.Email,
		Role:               string(e.Role),
		ReportingManagerID: e.ReportingManagerID,
		CreatedAt:          e.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID uint       `gorm:"index;not null" json:"employee_id"`
	TokenHash  string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt  *time.Time `gorm:"index" json:"revoked_at"`
	Employee   Employee   `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Applications & Schedules
// ============================================================

// Application represents the applications table. A Regular application may
// spawn a chain of linked rows (one per recurrence) sharing a requestor and
// type; children carry the root's id in LinkedApplicationID.
type Application struct {
	ID                  uint                   `gorm:"column:application_id;primaryKey" json:"application_id"`
	StartDate           time.Time              `gorm:"not null;index" json:"start_date"`
	EndDate             time.Time              `gorm:"not null" json:"end_date"`
	ApplicationType     domain.ApplicationType `gorm:"size:20;not null" json:"application_type"`
	Status              domain.Status          `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	CreatedByID         uint                   `gorm:"not null;index" json:"created_by"`
	VerifyByID          *uint                  `json:"verify_by"`
	VerifyTimestamp     *time.Time             `json:"verify_timestamp"`
	LinkedApplicationID *uint                  `gorm:"index" json:"linked_application"`
	RequestorRemarks    string                 `gorm:"type:text" json:"requestor_remarks"`
	ApproverRemarks     string                 `gorm:"type:text" json:"approver_remarks"`
	CreatedAt           time.Time              `gorm:"autoCreateTime" json:"created_timestamp"`
	UpdatedAt           time.Time              `gorm:"autoUpdateTime" json:"last_update_timestamp"`
	DeletedAt           gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relations
	CreatedBy *Employee `gorm:"foreignKey:CreatedByID" json:"requestor,omitempty"`
	VerifyBy  *Employee `gorm:"foreignKey:VerifyByID" json:"approver,omitempty"`
	Files     []File    `gorm:"-" json:"files,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ChainRootID returns the id shared by every member of the application's
// chain (the row's own id for roots and standalone applications).
func (a *Application) ChainRootID() uint {
	if a.LinkedApplicationID != nil {
		return *a.LinkedApplicationID
	}
	return a.ID
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                  uint       `json:"application_id"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             time.Time  `json:"end_date"`
	TimeSlot            string     `json:"time_slot"`
	ApplicationType     string     `json:"application_type"`
	Status              string     `json:"status"`
	CreatedByID         uint       `json:"created_by"`
	RequestorName       string     `json:"requestor_name,omitempty"`
	VerifyByID          *uint      `json:"verify_by"`
	ApproverName        string     `json:"approver_name,omitempty"`
	VerifyTimestamp     *time.Time `json:"verify_timestamp"`
	LinkedApplicationID *uint      `json:"linked_application"`
	RequestorRemarks    string     `json:"requestor_remarks"`
	ApproverRemarks     string     `json:"approver_remarks"`
	Files               []File     `json:"files,omitempty"`
	CreatedAt           time.Time  `json:"created_timestamp"`
	UpdatedAt           time.Time  `json:"last_update_timestamp"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                  a.ID,
		StartDate:           a.StartDate,
		EndDate:             a.EndDate,
		TimeSlot:            string(domain.SlotOf(a.StartDate, a.EndDate)),
		ApplicationType:     string(a.ApplicationType),
		Status:              string(a.Status),
		CreatedByID:         a.CreatedByID,
		VerifyByID:          a.VerifyByID,
		VerifyTimestamp:     a.VerifyTimestamp,
		LinkedApplicationID: a.LinkedApplicationID,
		RequestorRemarks:    a.RequestorRemarks,
		ApproverRemarks:     a.ApproverRemarks,
		Files:               a.Files,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}

	if a.CreatedBy != nil {
		resp.RequestorName = a.CreatedBy.FullName()
	}
	if a.VerifyBy != nil {
		resp.ApproverName = a.VerifyBy.FullName()
	}

	return resp
}

// Schedule represents the schedules table: confirmed WFH days derived from
// approved applications. Never created directly by users.
type Schedule struct {
	ID                uint                   `gorm:"column:schedule_id;primaryKey" json:"schedule_id"`
	StartDate         time.Time              `gorm:"not null;index" json:"start_date"`
	EndDate           time.Time              `gorm:"not null" json:"end_date"`
	ScheduleType      domain.ApplicationType `gorm:"size:20;not null" json:"schedule_type"`
	CreatedByID       uint                   `gorm:"not null;index" json:"created_by"`
	VerifyByID        *uint                  `json:"verify_by"`
	VerifyTimestamp   *time.Time             `json:"verify_timestamp"`
	LinkedScheduleID  *uint                  `gorm:"index" json:"linked_schedule"`
	ApplicationID     uint                   `gorm:"not null;index" json:"application_id"`
	CreatedAt         time.Time              `gorm:"autoCreateTime" json:"created_timestamp"`
	UpdatedAt         time.Time              `gorm:"autoUpdateTime" json:"last_update_timestamp"`
	DeletedAt         gorm.DeletedAt         `gorm:"index" json:"-"`

	// Relations
	CreatedBy *Employee `gorm:"foreignKey:CreatedByID" json:"employee,omitempty"`
	VerifyBy  *Employee `gorm:"foreignKey:VerifyByID" json:"approver,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// ============================================================
// Blacklist
// ============================================================

// Blacklist represents the blacklists table: a window during which no new
// application may be created. Recurrence is materialized as independent
// rows at creation time, never stored as a rule.
type Blacklist struct {
	ID             uint           `gorm:"column:blacklist_id;primaryKey" json:"blacklist_id"`
	StartDate      time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate        time.Time      `gorm:"not null" json:"end_date"`
	Remarks        string         `gorm:"type:text" json:"remarks"`
	CreatedByID    uint           `gorm:"not null" json:"created_by"`
	LastUpdateByID uint           `gorm:"not null" json:"last_update_by"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_timestamp"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"last_update_timestamp"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedBy *Employee `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Files     []File    `gorm:"-" json:"files,omitempty"`
}

func (Blacklist) TableName() string {
	return "blacklists"
}

// ============================================================
// Notifications & Files
// ============================================================

// Notification statuses
const (
	SendStatusPending = "Pending"
	SendStatusSent    = "Sent"
	SendStatusFailed  = "Failed"

	ReadStatusUnread = "Unread"
	ReadStatusRead   = "Read"
)

// Notification represents the notifications table. Rows are created by the
// lifecycle engine on status-changing events, mutated only to flip
// read_status, and never hard-deleted.
type Notification struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	NotificationType    string         `gorm:"size:50;not null" json:"notification_type"`
	Content             string         `gorm:"type:text;not null" json:"content"`
	SendStatus          string         `gorm:"size:20;not null;default:'Pending'" json:"send_status"`
	ReadStatus          string         `gorm:"size:20;not null;default:'Unread';index" json:"read_status"`
	SenderID            uint           `gorm:"not null" json:"sender_id"`
	RecipientID         uint           `gorm:"not null;index" json:"recipient_id"`
	LinkedApplicationID *uint          `gorm:"index" json:"linked_application_id"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_timestamp"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"last_update_timestamp"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Sender    *Employee `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *Employee `gorm:"foreignKey:RecipientID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Related entity kinds for file attachments
const (
	FileEntityApplication = "Application"
	FileEntityBlacklist   = "Blacklist"
)

// File represents the files table: attachment metadata owned by whichever
// entity it attaches to. Blobs live in the configured storage backend under
// S3Key.
type File struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	FileName        string         `gorm:"size:255;not null" json:"file_name"`
	Extension       string         `gorm:"size:20" json:"extension"`
	S3Key           string         `gorm:"uniqueIndex;size:255;not null" json:"s3_key"`
	RelatedEntity   string         `gorm:"size:20;not null;index:idx_files_related" json:"related_entity"`
	RelatedEntityID uint           `gorm:"not null;index:idx_files_related" json:"related_entity_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_timestamp"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"last_update_timestamp"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (File) TableName() string {
	return "files"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Employee{},
		&RefreshToken{},
		&Application{},
		&Schedule{},
		&Blacklist{},
		&Notification{},
		&File{},
	)
}
