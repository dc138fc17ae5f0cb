// Package buildinfo holds build metadata set with -ldflags, e.g.
//
//	-X github.com/soulpath-wellness/soulpath-actions-go/internal/buildinfo.Version=v1.2.0
package buildinfo

// Set at link time. Empty in development builds.
var (
	Version   = ""
	Commit    = ""
	BuildDate = ""
)

// Release names the running build for error reports and logs:
// "v1.2.0+abc1234", "v1.2.0", or "dev".
func Release() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if len(Commit) >= 7 {
		return v + "+" + Commit[:7]
	}
	return v
}
