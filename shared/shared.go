package shared

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"wsb/shared/constant"
	"wsb/shared/dto"
	"wsb/shared/failure"
)

const cacheKeySeparator = ":"

// BuildCacheKey joins a key family with its parameters, e.g. "slots:7:2025-01-10".
func BuildCacheKey(family string, parts ...any) string {
	if len(parts) == 0 {
		return family
	}

	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, family)

	for _, part := range parts {
		elems = append(elems, fmt.Sprint(part))
	}

	return strings.Join(elems, cacheKeySeparator)
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// Actor returns the caller stored in ctx by the auth middleware.
func Actor(ctx context.Context) (actorID string, isAdmin bool) {
	actorID, _ = ctx.Value(constant.ContextKeyActorID).(string)
	isAdmin, _ = ctx.Value(constant.ContextKeyIsAdmin).(bool)

	return actorID, isAdmin
}

// ParseID reads a positive numeric path identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.BadRequestFromString("id must be a positive integer") //nolint:wrapcheck
	}

	return id, nil
}
