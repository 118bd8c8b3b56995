package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderpack"
)

// ErrBackendUnavailable is returned when the requested HAL backend is not
// registered or exposes no adapter.
var ErrBackendUnavailable = errors.New("gpu: backend not available")

// ParseBackend parses a HAL backend name.
func ParseBackend(name string) (gputypes.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vulkan", "vk":
		return gputypes.BackendVulkan, nil
	default:
		return gputypes.BackendVulkan, fmt.Errorf("%w: %q", ErrBackendUnavailable, name)
	}
}

// Session is a standalone device opened on a HAL backend.
type Session struct {
	*Device

	// Adapter is the name of the adapter the device was opened on.
	Adapter string

	close func()
}

// Close destroys the device and its instance.
func (s *Session) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}

// Open creates a device on the first discrete or integrated adapter of
// backend, falling back to the first adapter.
func Open(backend gputypes.Backend) (*Session, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", ErrBackendUnavailable)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	shaderpack.Logger().Info("gpu: device opened", "adapter", selected.Info.Name)

	return &Session{
		Device:  NewDevice(openDev.Device),
		Adapter: selected.Info.Name,
		close: func() {
			openDev.Device.Destroy()
			instance.Destroy()
		},
	}, nil
}
