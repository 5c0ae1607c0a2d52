package cliconfig

import (
	"strings"

	pflag "github.com/spf13/pflag"

	"github.com/mininet/mininet-go/pkg/log"
)

// LevelValue is a pflag.Value holding a level name. Set rejects names that
// are not keys of log.Levels, so a bad flag fails at parse time.
type LevelValue struct {
	dst *string
}

var _ pflag.Value = (*LevelValue)(nil)

// NewLevelValue returns a LevelValue storing into dst.
func NewLevelValue(dst *string) *LevelValue {
	return &LevelValue{dst: dst}
}

func (v *LevelValue) String() string {
	if v.dst == nil {
		return ""
	}
	return *v.dst
}

// Set validates and stores name.
func (v *LevelValue) Set(name string) error {
	if _, err := log.ParseLevel(name); err != nil {
		return err
	}
	*v.dst = name
	return nil
}

// Type is shown in usage output.
func (v *LevelValue) Type() string {
	return "level"
}

// LevelUsage describes the accepted names, for flag help text.
func LevelUsage(what string) string {
	return what + " (" + strings.Join(log.LevelNames(), "|") + ")"
}
