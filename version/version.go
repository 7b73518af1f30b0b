package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Tag is set at build time with -ldflags "-X github.com/agalitsyn/todos/version.Tag=v1.0.0".
var Tag string

type Info struct {
	Tag      string
	Revision string
	BuildAt  string
	Dirty    bool
}

func Read() Info {
	info := Info{Tag: Tag}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	for _, setting := range buildInfo.Settings {
		// https://pkg.go.dev/runtime/debug#BuildSetting
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.BuildAt = setting.Value
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

func String() string {
	return Read().String()
}

func (i Info) String() string {
	// go run
	if i.Revision == "" {
		return "todos dev"
	}

	rev := i.Revision
	if len(rev) > 7 {
		rev = rev[:7]
	}

	buildAt := i.BuildAt
	if t, err := time.Parse(time.RFC3339, buildAt); err == nil {
		buildAt = t.Format("2006-01-02 15:04:05")
	}

	s := fmt.Sprintf("todos %s %s at %s", i.Tag, rev, buildAt)
	if i.Dirty {
		s += " dirty"
	}
	return s
}
