package model

import "time"

// Scan is one completed disease-analysis transaction, persisted per user and
// retrievable via history. JSON tags follow the wire contract of /analyze
// and /scans.
type Scan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	ImageHash      string    `gorm:"size:64;index" json:"image_hash"`
	DiseaseName    string    `gorm:"size:128;not null" json:"disease_name"`
	Confidence     float64   `gorm:"not null" json:"confidence"`
	Recommendation string    `gorm:"type:text" json:"recommendation"`
	Timestamp      time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
