package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"course-share-server/config"
	"course-share-server/internal/model"
	"course-share-server/internal/util"
)

// counterCreateAttempts ограничивает повторы при гонке ленивого создания
// строки счётчика
const counterCreateAttempts = 3

type CourseCodeCounterRepository struct {
	*config.Database
}

func NewCourseCodeCounterRepository(database *config.Database) *CourseCodeCounterRepository {
	return &CourseCodeCounterRepository{database}
}

// NextNumber выдаёт следующий номер последовательности для префикса.
// Строка счётчика читается под эксклюзивной блокировкой FOR UPDATE на всё
// время read-increment-write, поэтому выдача линеаризуема в пределах префикса,
// а разные префиксы друг друга не блокируют. Превышение maxNumber — жёсткий
// отказ model.ErrCourseCodeOverflow, транзакция откатывается и счётчик
// остаётся нетронутым.
func (r *CourseCodeCounterRepository) NextNumber(ctx context.Context, prefix string, maxNumber int) (int, error) {
	for attempt := 1; attempt <= counterCreateAttempts; attempt++ {
		next, err := r.tryNextNumber(ctx, prefix, maxNumber)
		if err == nil {
			return next, nil
		}
		if IsUniqueViolation(err) {
			// проиграна гонка первого создания строки: кто-то успел вставить
			// счётчик раньше, перечитываем его под блокировкой
			continue
		}
		return 0, err
	}

	return 0, fmt.Errorf("не удалось создать счётчик для префикса %s", prefix)
}

func (r *CourseCodeCounterRepository) tryNextNumber(ctx context.Context, prefix string, maxNumber int) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, util.LogError("не удалось начать транзакцию", err)
	}
	defer tx.Rollback()

	counter := &model.CourseCodeCounter{}
	query := `SELECT prefix, last_number FROM course_code_counters WHERE prefix = $1 FOR UPDATE`

	err = tx.GetContext(ctx, counter, query, prefix)
	if errors.Is(err, sql.ErrNoRows) {
		// строка создаётся лениво при первом обращении к префиксу
		query = `INSERT INTO course_code_counters (prefix, last_number) VALUES ($1, 1)`
		if _, err := tx.ExecContext(ctx, query, prefix); err != nil {
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, util.LogError("не удалось зафиксировать транзакцию", err)
		}
		return 1, nil
	}
	if err != nil {
		return 0, util.LogError("ошибка чтения счётчика под блокировкой", err)
	}

	next := counter.LastNumber + 1
	if next > maxNumber {
		return 0, fmt.Errorf("%w %s", model.ErrCourseCodeOverflow, prefix)
	}

	query = `UPDATE course_code_counters SET last_number = $2 WHERE prefix = $1`
	if _, err := tx.ExecContext(ctx, query, prefix, next); err != nil {
		return 0, util.LogError("не удалось обновить счётчик", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, util.LogError("не удалось зафиксировать транзакцию", err)
	}

	return next, nil
}
