package helpers

import (
	"encoding/json"
	"net/http"

	"pressa/internal/apperrors"
)

type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Kind  string      `json:"kind,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Data: data})
	if err != nil {
		return
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{Error: errMsg})
	if err != nil {
		return
	}
}

// AppError пишет ошибку вместе с тегом категории; статус выводится из Kind.
// UI ветвится по kind, а не по тексту сообщения.
func AppError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(kind))
	_ = json.NewEncoder(w).Encode(Response{Error: err.Error(), Kind: string(kind)})
}

func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
