package constants

type contextKey string

const UserContextKey = contextKey("user")
