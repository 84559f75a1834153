package handler

type ContextKey string

var (
	UserCtxKey  ContextKey = "user"
	TokenCtxKey ContextKey = "token"
)
