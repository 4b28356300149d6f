package apperrors

import (
	"errors"
	"fmt"
)

// Kind — закрытый набор категорий ошибок. Хендлеры и UI ветвятся по тегу,
// а не по тексту сообщения.
type Kind string

const (
	KindConfig      Kind = "config"       // не настроен внешний клиент (БД, провайдер AI)
	KindValidation  Kind = "validation"   // невалидный ввод
	KindProvider    Kind = "provider"     // сеть/не-2xx от внешнего провайдера
	KindBadResponse Kind = "bad_response" // ответ провайдера не парсится как JSON
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindInternal    Kind = "internal"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf возвращает категорию ошибки; для нетипизированных — KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
