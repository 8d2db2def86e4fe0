// Package debug holds environment controlled debug switches and the
// logger used for engine diagnostics.
package debug

import (
	"os"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

type debug struct {
	Build  bool
	Search bool
	Diff   bool
	RPC    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Build = boolEnv("UNFOLD_DEBUG_BUILD")
	d.Search = boolEnv("UNFOLD_DEBUG_SEARCH")
	d.Diff = boolEnv("UNFOLD_DEBUG_DIFF")
	d.RPC = boolEnv("UNFOLD_DEBUG_RPC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Build() bool {
	return d.Build
}
func Search() bool {
	return d.Search
}
func Diff() bool {
	return d.Diff
}
func RPC() bool {
	return d.RPC
}

var (
	base     *logrus.Logger
	baseOnce sync.Once
	loggers  = map[string]*logrus.Entry{}
	loggerMu sync.Mutex
)

func root() *logrus.Logger {
	baseOnce.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		level, err := logrus.ParseLevel(os.Getenv("UNFOLD_LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		if d.Build || d.Search || d.Diff || d.RPC {
			level = logrus.DebugLevel
		}
		base.SetLevel(level)
		if os.Getenv("UNFOLD_LOG_FORMAT") == "json" {
			base.SetFormatter(&logrus.JSONFormatter{})
		} else {
			base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		}
	})
	return base
}

// Logger returns the logger for a component, creating it on first use.
func Logger(component string) *logrus.Entry {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l, ok := loggers[component]; ok {
		return l
	}
	l := root().WithField("component", component)
	loggers[component] = l
	return l
}

// Logf writes a debug message for component.  Callers gate it on one of
// the switches above.
func Logf(component, msg string, args ...any) {
	Logger(component).Debugf(msg, args...)
}
