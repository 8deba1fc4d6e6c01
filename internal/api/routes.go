package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/icanhazdiploma"

	ValidateRoute     = "/validate"
	GenerateLinkRoute = "/generate-link"

	AdminParent          = "/v1/admin/"
	ListAuditsRoute      = AdminParent + "audits"
	ListSessionsRoute    = AdminParent + "sessions"
	ListRevocationsRoute = AdminParent + "revocations"
	RevokeTokenRoute     = AdminParent + "revoke"

	TaskParent       = AdminParent + "tasks/"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "{name}/trigger"
	LogsForTaskRoute = TaskParent + "{name}/logs"
)
