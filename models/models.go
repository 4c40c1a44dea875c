package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FullName  string    `json:"full_name" gorm:"size:100;not null"`
	Address   string    `json:"address" gorm:"size:200;not null"`
	Phone     string    `json:"phone" gorm:"size:20;not null"`
	Email     string    `json:"email" gorm:"size:120;not null;uniqueIndex"`
	Password  string    `gorm:"size:200;not null" json:"-"`
	Role      Role      `json:"role" gorm:"size:20;not null"`
}

type EstimateRequest struct {
	ID               uint             `json:"id" gorm:"primarykey"`
	EstimateNumber   string           `json:"estimate_number" gorm:"size:20;not null;uniqueIndex"`
	CustomerID       uint             `json:"customer_id" gorm:"not null;index"`
	Customer         *User            `json:"customer,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProjectType      ProjectType      `json:"project_type" gorm:"size:50;not null"`
	Services         string           `json:"services" gorm:"type:text;not null"`
	TotalSqft        *int             `json:"total_sqft"`
	Details          string           `json:"details" gorm:"type:text"`
	SketchFilename   string           `json:"sketch_filename" gorm:"size:255"`
	ImageFilenames   string           `json:"image_filenames" gorm:"type:text"`
	Status           EstimateStatus   `json:"status" gorm:"size:30;not null;index"`
	Timestamp        time.Time        `json:"timestamp" gorm:"autoCreateTime"`
	EstimatePDF      string           `json:"estimate_pdf" gorm:"column:estimate_pdf;size:255"`
	CustomerResponse CustomerResponse `json:"customer_response" gorm:"size:20"`
}

// ServiceList returns the requested services in submission order.
func (e *EstimateRequest) ServiceList() []string {
	return SplitList(e.Services)
}

// Images returns the attached image filenames in upload order.
func (e *EstimateRequest) Images() []string {
	return SplitList(e.ImageFilenames)
}

type Project struct {
	ID             uint              `json:"id" gorm:"primarykey"`
	ProjectNumber  string            `json:"project_number" gorm:"size:20;not null;uniqueIndex"`
	CustomerID     *uint             `json:"customer_id" gorm:"index"`
	Customer       *User             `json:"customer,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	ContactName    string            `json:"contact_name" gorm:"size:100"`
	ContactAddress string            `json:"contact_address" gorm:"size:200"`
	ContactPhone   string            `json:"contact_phone" gorm:"size:20"`
	ContactEmail   string            `json:"contact_email" gorm:"size:120;index"`
	ProjectType    ProjectType       `json:"project_type" gorm:"size:50;not null"`
	Services       string            `json:"services" gorm:"type:text;not null"`
	TotalSqft      *int              `json:"total_sqft"`
	Details        string            `json:"details" gorm:"type:text"`
	SketchFilename string            `json:"sketch_filename" gorm:"size:255"`
	Status         ProjectStatus     `json:"status" gorm:"size:30;not null;index"`
	CreatedAt      time.Time         `json:"created_at"`
	ScheduleData   datatypes.JSONMap `json:"schedule_data"`
	Messages       []ProjectMessage  `json:"messages,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	Uploads        []ProjectUpload   `json:"uploads,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

// ServiceList returns the project's services in their stored order.
func (p *Project) ServiceList() []string {
	return SplitList(p.Services)
}

// Schedule returns schedule_data as service name -> YYYY-MM-DD.
func (p *Project) Schedule() map[string]string {
	out := make(map[string]string, len(p.ScheduleData))
	for service, v := range p.ScheduleData {
		if s, ok := v.(string); ok {
			out[service] = s
		}
	}
	return out
}

type ProjectMessage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProjectID uint      `json:"project_id" gorm:"not null;index"`
	Sender    Role      `json:"sender" gorm:"size:50;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

type ProjectUpload struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProjectID uint      `json:"project_id" gorm:"not null;index"`
	Filename  string    `json:"filename" gorm:"size:255;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}

// JoinList stores an ordered list as a comma-joined string.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// SplitList is the inverse of JoinList; blank entries are dropped.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
