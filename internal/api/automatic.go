package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTLs

	"finance_system/internal/service" // Service layer
	"finance_system/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// AutomaticTransactionRequest represents a recurring-rule create/update
// request
type AutomaticTransactionRequest struct {
	WalletID            uint            `json:"wallet_id" binding:"required"`             // Wallet the rule feeds
	Name                string          `json:"name" binding:"required"`                  // Display name
	Amount              decimal.Decimal `json:"amount" binding:"required"`                // Positive amount
	Category            string          `json:"category" binding:"required"`              // Category name, decides the type
	Recurrence          string          `json:"recurrence" binding:"required"`            // DAILY, WEEKLY, MONTHLY or YEARLY
	Interval            int             `json:"interval" binding:"required"`              // Every N recurrence units
	Description         string          `json:"description"`                              // Copied onto materialized transactions
	NextTransactionDate string          `json:"next_transaction_date" binding:"required"` // YYYY-MM-DD of the first/next run
}

// toInput converts the request into the service input, parsing the date
func (req *AutomaticTransactionRequest) toInput() (service.AutomaticTransactionInput, error) {
	date, err := parseDate(req.NextTransactionDate)
	if err != nil {
		return service.AutomaticTransactionInput{}, err
	}
	return service.AutomaticTransactionInput{
		WalletID:            req.WalletID,
		Name:                req.Name,
		Amount:              req.Amount,
		Category:            req.Category,
		Recurrence:          req.Recurrence,
		Interval:            req.Interval,
		Description:         req.Description,
		NextTransactionDate: date,
	}, nil
}

// ListAutomaticTransactionsHandler returns the user's recurring rules
func ListAutomaticTransactionsHandler(automatics *service.AutomaticTransactionService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		page, pageSize, offset := pagination(c)
		ctx := context.Background() // Context for Redis operations
		cacheKey := "autotx:user:" + strconv.Itoa(int(userID)) +
			":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		list, total, err := automatics.List(userID, offset, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := gin.H{
			"automatic_transactions": list,
			"page":                   page,
			"page_size":              pageSize,
			"total":                  total,
			"total_pages":            (int(total) + pageSize - 1) / pageSize,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)
	}
}

// GetAutomaticTransactionHandler returns one rule owned by the user
func GetAutomaticTransactionHandler(automatics *service.AutomaticTransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		rule, err := automatics.Get(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rule)
	}
}

// CreateAutomaticTransactionHandler registers a recurring rule
func CreateAutomaticTransactionHandler(automatics *service.AutomaticTransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req AutomaticTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		rule, err := automatics.Create(userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"rule_id":   rule.ID,
			"wallet_id": rule.WalletID,
			"next_date": rule.NextTransactionDate.Format(dateLayout),
		}).Info("Automatic transaction created")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusCreated, rule)
	}
}

// UpdateAutomaticTransactionHandler rewrites a recurring rule
func UpdateAutomaticTransactionHandler(automatics *service.AutomaticTransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req AutomaticTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		rule, err := automatics.Update(userID, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"rule_id": rule.ID,
		}).Info("Automatic transaction updated")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusOK, rule)
	}
}

// DeleteAutomaticTransactionHandler removes a recurring rule
func DeleteAutomaticTransactionHandler(automatics *service.AutomaticTransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := automatics.Delete(userID, id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"rule_id": id,
		}).Info("Automatic transaction deleted")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.Status(http.StatusNoContent)
	}
}
