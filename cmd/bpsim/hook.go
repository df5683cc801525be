package main

import (
	"github.com/sarchlab/akita/v4/sim"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/bpsim/replay"
	"github.com/sarchlab/bpsim/trace"
)

// recordLogger logs every prediction at debug level.
type recordLogger struct {
	logger log.FieldLogger
}

func newRecordLogger() *recordLogger {
	return &recordLogger{logger: log.StandardLogger()}
}

func (l *recordLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != replay.HookPosPredict {
		return
	}
	rec, ok := ctx.Item.(replay.Record)
	if !ok {
		return
	}

	fields := log.Fields{
		"addr":      trace.FormatAddress(rec.Address),
		"history":   rec.History,
		"key":       rec.Key,
		"predicted": rec.Predicted,
		"actual":    rec.Actual,
	}
	if d, ok := ctx.Domain.(*replay.Driver); ok {
		fields["config"] = d.Config().Name()
	}
	l.logger.WithFields(fields).Debug("prediction")
}

func debugHooks() []sim.Hook {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return nil
	}
	return []sim.Hook{newRecordLogger()}
}
