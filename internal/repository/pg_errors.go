package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation : код ошибки Postgres для нарушения уникального ограничения
const uniqueViolation = pq.ErrorCode("23505")

func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
