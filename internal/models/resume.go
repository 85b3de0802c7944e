package models

import "time"

const (
	MaxResumesPerStudent = 3
	MaxResumeBytes       = 2 << 20
)

type Resume struct {
	ID        string `gorm:"column:id;size:36;primaryKey" json:"id"`
	StudentID string `gorm:"column:student_id;size:36;index" json:"studentId"`
	FileName  string `gorm:"column:file_name;type:text" json:"fileName"`
	FilePath  string `gorm:"column:file_path;type:text" json:"-"`

	FileSize int64  `gorm:"column:file_size" json:"fileSize"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mimeType"`

	UploadedAt time.Time `gorm:"column:uploaded_at" json:"uploadedAt"`
}

func (Resume) TableName() string { return "resumes" }
