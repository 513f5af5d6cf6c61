package constants

const (
	AppName      = "scanmart"
	AudienceUser = "scanmart-user"
)
