package redisrepo

const (
	MAIL_OUTBOX_KEY = "mail:outbox"
	MAIL_DEAD_KEY   = "mail:dead"
)
