// Package common — errors.go определяет ошибки, которые используются во всех модулях.
// Эти ошибки позволяют HTTP-слою и задачам различать типы проблем
// и отвечать клиенту понятным кодом.
package common

import "errors"

// Ошибки неправильного использования движка (ошибки программиста).
// Отсутствие данных ошибкой НЕ является — для него есть нулевой результат.
var (
	// ErrEmptySubject — не передан идентификатор ребёнка
	ErrEmptySubject = errors.New("не указан идентификатор профиля")
	// ErrInvalidRange — начало окна позже конца
	ErrInvalidRange = errors.New("начало периода позже конца")
	// ErrInvalidLookback — окно в днях должно быть положительным
	ErrInvalidLookback = errors.New("окно должно быть не меньше одного дня")
	// ErrInvalidMonth — месяц вне диапазона 1..12
	ErrInvalidMonth = errors.New("некорректный месяц")
)

// Ошибки входных записей. Такие записи отбрасываются, расчёт продолжается.
var (
	// ErrMalformedDate — дату записи не удалось разобрать
	ErrMalformedDate = errors.New("некорректная дата записи")
	// ErrNegativeXP — отрицательная награда
	ErrNegativeXP = errors.New("отрицательный XP")
	// ErrForeignSubject — запись принадлежит другому профилю
	ErrForeignSubject = errors.New("запись другого профиля")
)

// Ошибки хранилища и API
var (
	// ErrSubjectNotFound — профиль не найден в базе
	ErrSubjectNotFound = errors.New("профиль не найден")
	// ErrUnauthorized — неверный или отсутствующий API-ключ
	ErrUnauthorized = errors.New("неверный API-ключ")
)
