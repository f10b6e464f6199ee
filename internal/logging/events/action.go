package events

import "github.com/atomicstack/wmmenu/internal/logging"

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) Queue(name string, args map[string]string) {
	logging.Trace("action.queue", map[string]interface{}{"name": name, "args": args})
}

func (ActionTracer) Skip(name string) {
	logging.Trace("action.skip", map[string]interface{}{"name": name})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}
