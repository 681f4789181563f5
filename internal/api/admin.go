package api

import (
	"net/http" // HTTP status codes

	"finance_system/internal/domain"    // Importing domain models
	"finance_system/internal/scheduler" // Manual recurrence runs
	"finance_system/internal/service"   // Service layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// UserAdminResponse is the admin view of a user
type UserAdminResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Role     string `json:"role"`     // user or admin
	Wallets  int64  `json:"wallets"`  // Number of wallets owned
}

// ListUsersHandler returns all users with their wallet counts
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, offset := pagination(c)
		var total int64
		// Count users for pagination
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		// Fetch the requested page
		if err := db.Order("id").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		responses := make([]UserAdminResponse, 0, len(users))
		for _, user := range users {
			var wallets int64
			// Wallet count per user; errors here only zero the count
			_ = db.Model(&domain.Wallet{}).Where("user_id = ?", user.ID).Count(&wallets).Error
			responses = append(responses, UserAdminResponse{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
				Wallets:  wallets,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       responses,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": (int(total) + pageSize - 1) / pageSize,
		})
	}
}

// RunAutomaticTransactionsHandler triggers a recurrence materialization
// run immediately, without waiting for the daily tick. Useful to catch up
// after downtime.
func RunAutomaticTransactionsHandler(automatics *service.AutomaticTransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := currentUserID(c)
		if !ok {
			return
		}
		logrus.WithField("admin_id", adminID).Info("Manual automatic transaction run requested")
		scheduler.RunDaily(automatics)
		c.JSON(http.StatusOK, gin.H{"message": "Automatic transaction run completed"})
	}
}
