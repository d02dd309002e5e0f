// Package autoload initializes the global logger from the environment on
// import. Blank-import it from main.
package autoload

import (
	configx "github.com/naruebet/voiceline/pkg/config"
	logx "github.com/naruebet/voiceline/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
