package opts

import (
	"github.com/walteh/redline/pkg/change"
	"github.com/walteh/redline/pkg/config"
	"github.com/walteh/redline/pkg/report"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config       *config.Config
	Instructions []change.Instruction
	UserLogger   *report.UserLogger
}
