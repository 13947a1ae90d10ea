package storage

import (
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/feedback_kiosk/internal/model"
)

// AutoMigrate creates the feedback table when it does not exist yet.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(&model.FeedbackRecord{})
}
