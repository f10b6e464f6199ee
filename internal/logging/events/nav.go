package events

import "github.com/atomicstack/wmmenu/internal/logging"

type NavTracer struct{}

var Nav = NavTracer{}

func (NavTracer) OpenRoot(id string, x, y int) {
	logging.Trace("nav.open", map[string]interface{}{"menu": id, "x": x, "y": y})
}

func (NavTracer) CloseRoot(id string) {
	logging.Trace("nav.close", map[string]interface{}{"menu": id})
}

func (NavTracer) Select(menu, label string, index int) {
	logging.Trace("nav.select", map[string]interface{}{"menu": menu, "label": label, "index": index})
}

func (NavTracer) Execute(menu, label string, actions []string) {
	logging.Trace("nav.execute", map[string]interface{}{"menu": menu, "label": label, "actions": actions})
}
