package shell

import (
	"sync"

	"github.com/core-tools/hsu-shell/pkg/logging"
)

// Window is the host window the command surface drives
type Window interface {
	SetFullscreen(fullscreen bool) error
	IsFullscreen() bool
	OpenDevtools() error
}

// HeadlessWindow stands in for a real window when the shell runs without a UI
type HeadlessWindow struct {
	fullscreen bool
	logger     logging.Logger
	mutex      sync.Mutex
}

func NewHeadlessWindow(logger logging.Logger) *HeadlessWindow {
	return &HeadlessWindow{logger: logger}
}

func (w *HeadlessWindow) SetFullscreen(fullscreen bool) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.fullscreen = fullscreen
	w.logger.Infof("Window fullscreen: %t", fullscreen)
	return nil
}

func (w *HeadlessWindow) IsFullscreen() bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.fullscreen
}

func (w *HeadlessWindow) OpenDevtools() error {
	w.logger.Infof("Devtools requested, no window attached")
	return nil
}
