// Package apperr define la taxonomía de errores del flujo de pedidos y su
// mapeo a códigos HTTP. Los handlers traducen con HTTPStatus y responden
// siempre {"success": false, "error": mensaje}.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
)

// Error es un error tipado del dominio. Para conflictos de stock,
// Available lleva la cantidad disponible para que el cliente pueda ajustar.
type Error struct {
	Kind      Kind
	Message   string
	Available *int
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus mapea la taxonomía a códigos HTTP.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// StockConflict arma un conflicto de stock insuficiente con la cantidad
// disponible actual.
func StockConflict(product string, available, requested int) *Error {
	return &Error{
		Kind:      KindConflict,
		Message:   fmt.Sprintf("Stock insuficiente para %s: disponible %d, solicitado %d", product, available, requested),
		Available: &available,
	}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// As extrae un *Error de cualquier error envuelto; si no hay, lo trata
// como interno.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindInternal, Message: "Error interno del servidor", Err: err}
}

// IsKind reporta si err es un *Error del tipo dado.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
