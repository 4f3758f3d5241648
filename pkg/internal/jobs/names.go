package jobs

// 任务名称.
const (
	JobLoginRetention = "login-retention"
	JobCodeExpiry     = "code-expiry"
	JobOrphanSweep    = "orphan-sweep"
)
