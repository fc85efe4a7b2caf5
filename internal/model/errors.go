package model

import "errors"

// Ожидаемые исходы операций аутентификации. Хендлеры сопоставляют их
// со статусами через errors.Is; всё остальное считается внутренней ошибкой сервера
var (
	// ErrUserExists — попытка регистрации с уже занятым email
	ErrUserExists = errors.New("пользователь уже существует")

	// ErrUserNotFound — пользователь не найден в хранилище
	ErrUserNotFound = errors.New("пользователь не найден")

	// ErrInvalidCredentials — неверная пара email/пароль при входе
	ErrInvalidCredentials = errors.New("неверный email или пароль")

	// ErrTokenRejected — токен не прошел проверку: битая подпись, истекший срок,
	// неверный формат или refresh-токен, уже вытесненный ротацией
	ErrTokenRejected = errors.New("невалидный токен")
)
