package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/v1/info"

	CheckRoute      = "/v1/check"
	VisibilityRoute = "/v1/visibility/{id}"
	RegisterRoute   = "/v1/register"

	RuleSetsRoute = "/v1/rules"
	VariantsRoute = "/v1/rules/variants"

	ExplainRoute        = "/v1/explain"
	AuditDecisionsRoute = "/v1/audit/decisions"
)
