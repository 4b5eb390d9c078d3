package tython

import "github.com/juju/loggo"

var logger = loggo.GetLogger("tython")

// configureLogging gates loggo's output level on InterpreterConfig.Debug.
// Disabled (the default), only warnings and above are emitted; enabled,
// the lexer/parser/evaluator's Debugf traces are shown too.
func configureLogging(cfg *InterpreterConfig) {
	if cfg != nil && cfg.Debug {
		logger.SetLogLevel(loggo.DEBUG)
	} else {
		logger.SetLogLevel(loggo.WARNING)
	}
}
