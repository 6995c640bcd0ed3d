package common

// AppName and Version identify the tool in the banner and version output.
const (
	AppName = "CLI Buddy"
	Version = "0.1.0"
)
