package bridge

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Install binds the root host object into the attached runtime's global
// scope as a non-configurable, read-only, enumerable property.
//
// Installation is idempotent per runtime: repeated calls never create a
// second binding. With no runtime attached it reports false rather than
// failing, since that is an expected transient state (remote debugging,
// runtime not yet created).
func (c *AppContext) Install() bool {
	if c.destroyed.Load() {
		return false
	}

	c.rtMu.RLock()
	rt := c.rt
	c.rtMu.RUnlock()

	if rt == nil {
		c.log.Debug("install skipped", zap.String("reason", "no runtime attached"))
		return false
	}

	installed := false
	ok := rt.Do(func(vm *goja.Runtime) {
		global := vm.GlobalObject()

		if v := global.Get(GlobalName); v != nil && !goja.IsUndefined(v) {
			// The binding survives a detach. Restore the association so
			// event emission routes to the object the global dispatches to.
			if rt.hostObj != nil {
				c.rtMu.Lock()
				c.hostObj = rt.hostObj
				c.rtMu.Unlock()
			}
			installed = true
			return
		}

		ho := newHostObject(c, vm)
		root := vm.NewDynamicObject(ho)

		err := global.DefineDataProperty(GlobalName, root,
			goja.FLAG_FALSE, // writable
			goja.FLAG_FALSE, // configurable
			goja.FLAG_TRUE,  // enumerable
		)
		if err != nil {
			c.log.Error("failed to define host object global", zap.Error(err))
			return
		}

		rt.hostObj = ho
		c.rtMu.Lock()
		c.hostObj = ho
		c.rtMu.Unlock()
		installed = true
	})
	if !ok {
		return false
	}

	if installed {
		c.log.Debug("host object installed", zap.String("global", GlobalName))
	}
	return installed
}
