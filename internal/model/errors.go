package model

import "errors"

// Ошибки подсистемы аутентификации и генерации кодов курсов.
// Обработчики различают их через errors.Is, но наружу все token-ошибки
// уходят одинаковым 401 без уточнения, какая именно проверка не прошла.
var (
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrTokenInvalid       = errors.New("невалидный токен")
	ErrTokenExpired       = errors.New("токен просрочен")
	ErrTokenNotFound      = errors.New("refresh токен не найден")

	// ErrReuseDetected : повторно предъявлен уже ротированный или отозванный
	// refresh токен. Признак кражи токена, все сессии пользователя отзываются.
	ErrReuseDetected = errors.New("обнаружено повторное использование refresh токена")

	ErrCourseCodeOverflow = errors.New("переполнение счётчика кодов курсов для префикса")
	ErrCourseCodeExists   = errors.New("код курса уже существует")
	ErrNotFound           = errors.New("запись не найдена")
)
