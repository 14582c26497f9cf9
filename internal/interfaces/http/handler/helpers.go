package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ledger"
	"github.com/salesops/backend/internal/domain/shared"
)

// uuidParam parses a path parameter, reporting INVALID_INPUT when malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid "+name+": must be a UUID")
	}
	return id, nil
}

// optionalDate parses a YYYY-MM-DD value; empty yields nil
func optionalDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(ledger.DateLayout, value)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid "+name+": expected YYYY-MM-DD")
	}
	return &t, nil
}

// monthStart returns midnight UTC of the first day of t's month
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
