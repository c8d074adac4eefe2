package model

import "time"

// Report is the relational row for a sighting. Comments and reactions cascade
// with the report.
type Report struct {
	ID          string           `gorm:"primaryKey;size:128" json:"id"`
	Type        string           `gorm:"size:16;not null;index:idx_reports_type" json:"type"`
	Latitude    float64          `gorm:"not null" json:"latitude"`
	Longitude   float64          `gorm:"not null" json:"longitude"`
	Description string           `gorm:"default:''" json:"description"`
	Severity    string           `gorm:"size:16;default:'medium'" json:"severity"`
	ImageURL    string           `gorm:"column:image_url" json:"image_url"`
	AuthorID    string           `gorm:"size:128;index:idx_reports_author" json:"author_id"`
	AuthorName  string           `gorm:"size:40" json:"author_name"`
	Timestamp   time.Time        `gorm:"not null;index:idx_reports_timestamp,sort:desc" json:"timestamp"`
	Comments    []ReportComment  `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	Reactions   []ReportReaction `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Report) TableName() string {
	return "reports"
}

type ReportComment struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	ReportID  string    `gorm:"size:128;not null;index:idx_report_comments_report_id" json:"report_id"`
	UserID    string    `gorm:"size:128;not null" json:"user_id"`
	UserName  string    `gorm:"size:40;not null" json:"user_name"`
	Comment   string    `gorm:"not null" json:"comment"`
	Timestamp time.Time `gorm:"not null;index:idx_report_comments_timestamp,sort:desc" json:"timestamp"`
}

func (ReportComment) TableName() string {
	return "report_comments"
}

// ReportReaction holds one active (report, user, kind) membership. The
// composite primary key is what makes the toggle a single atomic statement.
type ReportReaction struct {
	ReportID     string    `gorm:"primaryKey;size:128" json:"report_id"`
	UserID       string    `gorm:"primaryKey;size:128" json:"user_id"`
	ReactionType string    `gorm:"primaryKey;size:16" json:"reaction_type"`
	Timestamp    time.Time `gorm:"not null;index:idx_report_reactions_timestamp,sort:desc" json:"timestamp"`
}

func (ReportReaction) TableName() string {
	return "report_reactions"
}
