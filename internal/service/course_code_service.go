package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"course-share-server/internal/ports"
)

// courseCodeMaxNumber : трёхзначный числовой суффикс кода курса
const courseCodeMaxNumber = 999

// CourseCodeService выдаёт уникальные последовательные коды курсов вида
// PREFIX-NNN. Номер сжигается при каждом обращении: если потребитель не смог
// сохранить курс с выданным кодом, номер не возвращается в счётчик —
// пропуски в последовательности допустимы, дубликаты нет.
type CourseCodeService struct {
	counterRepository ports.CourseCodeCounterRepositoryInterface
}

func NewCourseCodeService(counterRepository ports.CourseCodeCounterRepositoryInterface) *CourseCodeService {
	return &CourseCodeService{counterRepository: counterRepository}
}

func (s *CourseCodeService) NextCode(ctx context.Context, prefix string) (string, error) {
	next, err := s.counterRepository.NextNumber(ctx, prefix, courseCodeMaxNumber)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%03d", prefix, next), nil
}

// BuildPrefixFromCategory строит префикс кода из названия категории:
// первые две латинские буквы в верхнем регистре, при нехватке добивается X.
func BuildPrefixFromCategory(name string) string {
	var letters strings.Builder
	for _, c := range name {
		if c <= unicode.MaxASCII && unicode.IsLetter(c) {
			letters.WriteRune(unicode.ToUpper(c))
			if letters.Len() == 2 {
				break
			}
		}
	}

	prefix := letters.String()
	for len(prefix) < 2 {
		prefix += "X"
	}
	return prefix
}
