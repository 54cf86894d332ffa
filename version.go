package letterbox

// Version and BuildDate identify the build in the CLI banner and the
// version subcommand. Releases override them with
// -ldflags "-X ...letterbox-lang.Version=... -X ...letterbox-lang.BuildDate=...".
var (
	Version   = "0.4.2"
	BuildDate = "unknown"
)
