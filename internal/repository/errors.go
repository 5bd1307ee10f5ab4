package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("запись не найдена")
	ErrDuplicate       = errors.New("запись уже существует")
	ErrMalformedRecord = errors.New("некорректная запись")
)

// DecodeError - строка из хранилища не прошла проверку схемы.
type DecodeError struct {
	Collection string
	ID         string
	Field      string
	Reason     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: поле %s: %s", e.Collection, e.ID, e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedRecord
}
