package events

import "github.com/atomicstack/wmmenu/internal/logging"

type MenuTracer struct{}

type LoaderTracer struct{}

type LayoutTracer struct{}

var (
	Menu   = MenuTracer{}
	Loader = LoaderTracer{}
	Layout = LayoutTracer{}
)

func (MenuTracer) Create(id, label string, pipe bool) {
	logging.Trace("menu.create", map[string]interface{}{"id": id, "label": label, "pipe": pipe})
}

func (MenuTracer) Free(id string) {
	logging.Trace("menu.free", map[string]interface{}{"id": id})
}

func (MenuTracer) DestroyPipeMenus(before, after int) {
	logging.Trace("menu.pipe.destroy", map[string]interface{}{"before": before, "after": after})
}

func (MenuTracer) Hide(id string, parents int) {
	logging.Trace("menu.hide", map[string]interface{}{"id": id, "parents": parents})
}

func (MenuTracer) Node(path, content string) {
	logging.Trace("menu.node", map[string]interface{}{"path": path, "content": content})
}

func (LoaderTracer) Read(path string) {
	logging.Trace("loader.read", map[string]interface{}{"path": path})
}

func (LoaderTracer) Skip(path string, reason string) {
	logging.Trace("loader.skip", map[string]interface{}{"path": path, "reason": reason})
}

func (LayoutTracer) Configure(id string, x, y int, align string) {
	logging.Trace("layout.configure", map[string]interface{}{"menu": id, "x": x, "y": y, "align": align})
}
