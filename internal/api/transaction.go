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

// TransactionRequest represents a transaction create/update request
type TransactionRequest struct {
	WalletID    uint            `json:"wallet_id" binding:"required"` // Affected wallet
	Amount      decimal.Decimal `json:"amount" binding:"required"`    // Positive amount
	Category    string          `json:"category" binding:"required"`  // Category name, decides the type
	Date        string          `json:"date" binding:"required"`      // YYYY-MM-DD
	Description string          `json:"description"`                  // Free-form note
}

// toInput converts the request into the service input, parsing the date
func (req *TransactionRequest) toInput() (service.TransactionInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return service.TransactionInput{}, err
	}
	return service.TransactionInput{
		WalletID:    req.WalletID,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Description: req.Description,
	}, nil
}

// ListTransactionsHandler returns the authenticated user's transactions,
// paginated, or filtered by an explicit start/end date range
func ListTransactionsHandler(transactions *service.TransactionService, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		// Range listing bypasses pagination
		if start := c.Query("start"); start != "" {
			startDate, err := parseDate(start)
			if err != nil {
				respondError(c, err)
				return
			}
			endDate, err := parseDate(c.Query("end"))
			if err != nil {
				respondError(c, err)
				return
			}
			list, err := transactions.ListByRange(userID, startDate, endDate)
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"transactions": list})
			return
		}
		page, pageSize, offset := pagination(c)
		ctx := context.Background() // Context for Redis operations
		cacheKey := "transactions:user:" + strconv.Itoa(int(userID)) +
			":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached gin.H
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		list, total, err := transactions.List(userID, offset, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := gin.H{
			"transactions": list,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  (int(total) + pageSize - 1) / pageSize,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, resp)
	}
}

// GetTransactionHandler returns one transaction owned by the user
func GetTransactionHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		transaction, err := transactions.Get(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

// CreateTransactionHandler records an income or expense on a wallet
func CreateTransactionHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		transaction, err := transactions.Create(userID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		// Log the balance-affecting mutation
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": transaction.ID,
			"wallet_id":      transaction.WalletID,
			"amount":         transaction.Amount,
			"type":           transaction.Type,
		}).Info("Transaction created")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusCreated, transaction)
	}
}

// UpdateTransactionHandler rewrites a transaction, reverting its old
// balance effect and applying the new one
func UpdateTransactionHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondError(c, err)
			return
		}
		transaction, err := transactions.Update(userID, id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": transaction.ID,
		}).Info("Transaction updated")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.JSON(http.StatusOK, transaction)
	}
}

// DeleteTransactionHandler reverts a transaction's effect and removes it
func DeleteTransactionHandler(transactions *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := transactions.Delete(userID, id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"transaction_id": id,
		}).Info("Transaction deleted")
		invalidateFinanceCache(c, userID) // Invalidate cached listings
		c.Status(http.StatusNoContent)
	}
}
