package lessonpack

type Config struct {
	AppName               *string
	AppVersion            *string
	TelemetryUrl          *string
	TelemetryOrganization *string
}
