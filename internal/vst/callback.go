// SPDX-License-Identifier: MIT
package vst

import (
	"fmt"
	"sync"
	"unsafe"

	"pipelined.dev/audio/vst2"

	"vsthost/internal/config"
	"vsthost/internal/log"
)

// hostWantMIDI is deprecated in VST 2.4 and unexported by vst2, but older
// plugins still send it.
const hostWantMIDI = vst2.HostOpcode(6)

const (
	// Version reported for the host, in VST 2.4 encoding.
	hostVSTVersion = 2400

	// Largest vendor or product string a plugin buffer holds, NUL included.
	maxHostStringLen = 64
)

// Callback answers the queries a plugin makes of its host. It may be
// invoked from any goroutine or thread the plugin uses, so every call
// takes the same lock.
type Callback struct {
	mu sync.Mutex

	id         int
	vendor     string
	product    string
	sampleRate int
	blockSize  int
	version    int
	events     int
}

// NewCallback creates a callback whose identity and session answers come
// from cfg.
func NewCallback(cfg *config.Config) *Callback {
	return &Callback{
		id:         cfg.Plugin.ID,
		vendor:     cfg.Plugin.Vendor,
		product:    cfg.Plugin.Product,
		sampleRate: cfg.Render.SampleRate,
		blockSize:  cfg.Render.BlockSize,
		version:    1,
	}
}

// Identify returns the host identification triple. It never changes over
// the life of the callback.
func (c *Callback) Identify() (int, string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Debugf("Host: identify (%d, %q, %q)", c.id, c.vendor, c.product)
	return c.id, c.vendor, c.product
}

// Automate is the parameter-change notification. Automation is not
// supported and the call panics with ErrCallbackMisuse.
func (c *Callback) Automate(index int32, value float32) {
	panic(fmt.Errorf("%w: automate parameter %d to %f", ErrCallbackMisuse, index, value))
}

// Idle is the idle notification.
func (c *Callback) Idle() {}

// ProcessEvents acknowledges events sent by the plugin to the host.
func (c *Callback) ProcessEvents() {
	c.mu.Lock()
	c.events++
	n := c.events
	c.mu.Unlock()

	log.Debugf("Host: process events (%d received)", n)
}

// Events returns how many event batches the plugin has sent to the host.
func (c *Callback) Events() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events
}

// Dispatch is the host callback handed to the plugin. Unknown opcodes are
// logged and answered with 0.
func (c *Callback) Dispatch(op vst2.HostOpcode, index int32, value int64, ptr unsafe.Pointer, opt float32) int64 {
	switch op {
	case vst2.HostAutomate:
		c.Automate(index, opt)
		return 0
	case vst2.HostVersion:
		return hostVSTVersion
	case vst2.HostCurrentID:
		id, _, _ := c.Identify()
		return int64(id)
	case vst2.HostIdle:
		c.Idle()
		return 0
	case hostWantMIDI:
		return 1
	case vst2.HostProcessEvents:
		c.ProcessEvents()
		return 0
	case vst2.HostGetSampleRate:
		c.mu.Lock()
		defer c.mu.Unlock()
		return int64(c.sampleRate)
	case vst2.HostGetBufferSize:
		c.mu.Lock()
		defer c.mu.Unlock()
		return int64(c.blockSize)
	case vst2.HostGetCurrentProcessLevel:
		return int64(vst2.ProcessLevelOffline)
	case vst2.HostGetVendorString:
		_, vendor, _ := c.Identify()
		return copyHostString(ptr, vendor)
	case vst2.HostGetProductString:
		_, _, product := c.Identify()
		return copyHostString(ptr, product)
	case vst2.HostGetVendorVersion:
		c.mu.Lock()
		defer c.mu.Unlock()
		return int64(c.version)
	case vst2.HostGetTime, vst2.HostCanDo, vst2.HostSizeWindow:
		return 0
	default:
		log.Debugf("Host: unhandled opcode %d (index %d, value %d)", int(op), index, value)
		return 0
	}
}

// copyHostString writes s into the plugin owned buffer at ptr as a NUL
// terminated string, truncated to maxHostStringLen bytes.
func copyHostString(ptr unsafe.Pointer, s string) int64 {
	if ptr == nil {
		return 0
	}
	buf := unsafe.Slice((*byte)(ptr), maxHostStringLen)
	n := copy(buf[:maxHostStringLen-1], s)
	buf[n] = 0
	return 1
}
