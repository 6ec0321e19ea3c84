// Copyright 2026 The caster Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// DeviceHandle is the gpucontext view of a Device, for hosts in the gogpu
// ecosystem that accept a device provider.
type DeviceHandle = gpucontext.DeviceProvider

// Device owns a HAL instance, the opened logical device and its queue.
//
// A Device is acquired once at startup and outlives every Renderer created
// on it. Close releases it.
type Device struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue

	adapterName string
	deviceType  gputypes.DeviceType

	// surfaceFormat is reported through DeviceHandle; set by the renderer
	// once a surface format is chosen.
	surfaceFormat gputypes.TextureFormat

	closed bool
}

// OpenDevice creates an instance of the given backend and opens the first
// discrete or integrated GPU it exposes, falling back to the first adapter.
func OpenDevice(backend gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("render: create instance: %w", err)
	}
	return openOnInstance(instance)
}

// OpenNoopDevice opens a device on the noop backend. Every operation
// succeeds without touching a GPU; it serves headless runs and tests.
func OpenNoopDevice() (*Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("render: create noop instance: %w", err)
	}
	return openOnInstance(instance)
}

func openOnInstance(instance hal.Instance) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU &&
			selected.Info.DeviceType != gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("render: open device: %w", err)
	}

	slogger().Info("render: device opened",
		"adapter", selected.Info.Name, "type", selected.Info.DeviceType)

	return &Device{
		instance:      instance,
		adapter:       selected.Adapter,
		device:        openDev.Device,
		queue:         openDev.Queue,
		adapterName:   selected.Info.Name,
		deviceType:    selected.Info.DeviceType,
		surfaceFormat: gputypes.TextureFormatUndefined,
	}, nil
}

// CreateSurface creates a window surface from native display and window
// handles on the device's instance.
func (d *Device) CreateSurface(display, window uintptr) (*HALSurface, error) {
	raw, err := d.instance.CreateSurface(display, window)
	if err != nil {
		return nil, fmt.Errorf("render: create window surface: %w", err)
	}
	s, err := NewHALSurface(raw, d.adapter)
	if err != nil {
		raw.Destroy()
		return nil, err
	}
	return s, nil
}

// HAL returns the underlying HAL device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) { return d.device, d.queue }

// AdapterName returns the name of the adapter the device was opened on.
func (d *Device) AdapterName() string { return d.adapterName }

// HalDevice returns the hal.Device as any, for accelerators that
// discover the HAL device through the provider.
func (d *Device) HalDevice() any { return d.device }

// HalQueue returns the hal.Queue as any.
func (d *Device) HalQueue() any { return d.queue }

// Device implements gpucontext.DeviceProvider.
func (d *Device) Device() gpucontext.Device { return deviceRef{d} }

// Queue implements gpucontext.DeviceProvider.
func (d *Device) Queue() gpucontext.Queue { return queueRef{d} }

// Adapter implements gpucontext.DeviceProvider.
func (d *Device) Adapter() gpucontext.Adapter { return adapterRef{name: d.adapterName} }

// SurfaceFormat implements gpucontext.DeviceProvider. It is Undefined until
// a renderer has configured a surface on this device.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.surfaceFormat }

// Close destroys the device and its instance. Calling Close more than once
// is a no-op.
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true
	if d.device != nil {
		d.device.Destroy()
	}
	if d.adapter != nil {
		d.adapter.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	slogger().Info("render: device closed", "adapter", d.adapterName)
}

// deviceRef is the gpucontext.Device handed to hosts. The host does not own
// the device: Destroy is a no-op and the Device is released by Close.
type deviceRef struct{ d *Device }

func (deviceRef) Poll(bool) {}
func (deviceRef) Destroy()  {}

type queueRef struct{ d *Device }

type adapterRef struct{ name string }

var _ DeviceHandle = (*Device)(nil)
