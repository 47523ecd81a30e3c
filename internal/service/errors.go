package service

import "errors"

// Доменные ошибки. Все они восстановимые и относятся к одной операции;
// хэндлер сопоставляет их с HTTP-кодами через errors.Is.
var (
	// ErrValidation - некорректные данные заявки (тип/серьезность и т.д.)
	ErrValidation = errors.New("validation failed")

	// ErrNotFound - сущность с таким id не существует или не видна вызывающему
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition - недопустимый переход статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyAssigned - инцидент уже забран другим ответчиком (проигранная гонка)
	ErrAlreadyAssigned = errors.New("incident already assigned")

	// ErrResponderUnavailable - ответчик занят или приостановлен
	ErrResponderUnavailable = errors.New("responder unavailable")

	// ErrInvalidEta - ETA вне допустимого дискретного набора значений
	ErrInvalidEta = errors.New("invalid eta value")

	// ErrInvalidCredentials - неверные учетные данные или роль при входе
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken - пользователь с таким email уже зарегистрирован
	ErrEmailTaken = errors.New("email already registered")

	// ErrForbidden - операция не разрешена роли вызывающего
	ErrForbidden = errors.New("operation not permitted")
)
