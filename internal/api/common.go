package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error kind classification
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Date parsing

	"finance_system/internal/domain" // Importing domain models
	"finance_system/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// dateLayout is the wire format for all dates in the API
const dateLayout = "2006-01-02"

// currentUserID extracts the authenticated owner set by the JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	if !exists {
		// If not, return unauthorized
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID.(uint), true
}

// pagination reads page/page_size query parameters with sane bounds
func pagination(c *gin.Context) (page, pageSize, offset int) {
	page = 1      // Default page
	pageSize = 20 // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize, (page - 1) * pageSize
}

// parseDate parses a YYYY-MM-DD value, reporting a validation error
func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date '%s' must be formatted as %s: %w", value, dateLayout, domain.ErrValidation)
	}
	return date, nil
}

// respondError maps domain error kinds to HTTP statuses
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInsufficientBalance):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		// Unexpected internal failure: log details, answer generically
		logrus.WithField("error", err.Error()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// invalidateFinanceCache drops every cached finance response for a user,
// called after any mutation touching that user's data
func invalidateFinanceCache(c *gin.Context, userID uint) {
	rdb, ok := c.MustGet("redisClient").(*redis.Client)
	if !ok {
		return
	}
	ctx := context.Background() // Context for Redis operations
	owner := strconv.Itoa(int(userID))
	for _, prefix := range []string{
		"wallets:user:" + owner,
		"transactions:user:" + owner,
		"transferences:user:" + owner,
		"autotx:user:" + owner,
	} {
		_ = utils.DeleteCacheByPrefix(ctx, rdb, prefix) // Best effort; reads fall back to the DB
	}
}
