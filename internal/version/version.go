package version

// Name identifies the service in logs and telemetry.
const Name = "counseld"

// Version is stamped at release time.
const Version = "0.1.0"
