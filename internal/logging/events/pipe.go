package events

import "github.com/atomicstack/wmmenu/internal/logging"

type PipeTracer struct{}

var Pipe = PipeTracer{}

func (PipeTracer) Spawn(request, id, command string, pid int) {
	logging.Trace("pipe.spawn", map[string]interface{}{"request": request, "id": id, "command": command, "pid": pid})
}

func (PipeTracer) Busy(id string) {
	logging.Trace("pipe.busy", map[string]interface{}{"id": id})
}

func (PipeTracer) Read(request string, pid, size, total int) {
	logging.Trace("pipe.read", map[string]interface{}{"request": request, "pid": pid, "size": size, "total": total})
}

func (PipeTracer) State(request string, pid int, state string) {
	logging.Trace("pipe.state", map[string]interface{}{"request": request, "pid": pid, "state": state})
}

func (PipeTracer) Splice(request, menu string, items int) {
	logging.Trace("pipe.splice", map[string]interface{}{"request": request, "menu": menu, "items": items})
}
