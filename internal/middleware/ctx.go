package middleware

type ctxKey string

const (
	ContextUserID    ctxKey = "user_id"
	ContextRole      ctxKey = "role"
	ContextRequestID ctxKey = "request_id"
)
