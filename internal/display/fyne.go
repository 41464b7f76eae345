package display

import (
	"image"
	"image/color"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/sirupsen/logrus"

	"video-effects-chain/internal/core"
)

// Fyne shows frames in fyne windows. Frames are converted to Go images on
// the calling goroutine; windows are only touched inside fyne.Do callbacks,
// so the pipeline never waits for the UI thread.
type Fyne struct {
	app     fyne.App
	windows map[string]*fyneWindow // owned by the fyne goroutine
	stop    atomic.Bool
	stopped atomic.Bool
	logger  logrus.FieldLogger
}

type fyneWindow struct {
	window fyne.Window
	image  *canvas.Image
}

var (
	_ Surface            = (*Fyne)(nil)
	_ core.StopRequester = (*Fyne)(nil)
)

// NewFyne creates a surface bound to app. The caller runs app.Run on the
// main goroutine and drives the pipeline from another one.
func NewFyne(app fyne.App, logger logrus.FieldLogger) *Fyne {
	f := &Fyne{
		app:     app,
		windows: make(map[string]*fyneWindow),
		logger:  logger,
	}
	app.Lifecycle().SetOnStopped(func() {
		f.stopped.Store(true)
		f.stop.Store(true)
	})
	return f
}

func (f *Fyne) Show(name string, frame *core.Frame) {
	if f.stopped.Load() {
		return
	}

	img, err := frame.Image()
	if err != nil {
		f.logger.WithError(err).WithField("window", name).Debug("Failed to convert frame to image")
		return
	}

	fyne.Do(func() {
		w := f.window(name, img.Bounds().Size())
		w.image.Image = img
		w.image.Refresh()
	})
}

// PollEvents is a no-op: fyne runs its own event loop on the main goroutine.
func (f *Fyne) PollEvents() {}

func (f *Fyne) StopRequested() bool {
	return f.stop.Load()
}

func (f *Fyne) CloseWindow(name string) error {
	if f.stopped.Load() {
		return nil
	}
	fyne.Do(func() {
		w, ok := f.windows[name]
		if !ok {
			return
		}
		delete(f.windows, name)
		w.window.Close()
	})
	return nil
}

// Close quits the fyne application, which makes app.Run return.
func (f *Fyne) Close() error {
	if f.stopped.Load() {
		return nil
	}
	fyne.Do(func() {
		f.app.Quit()
	})
	return nil
}

func (f *Fyne) window(name string, size image.Point) *fyneWindow {
	if w, ok := f.windows[name]; ok {
		return w
	}

	placeholder := image.NewUniform(color.RGBA{R: 240, G: 240, B: 240, A: 255})
	img := canvas.NewImageFromImage(placeholder)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(200, 150))

	window := f.app.NewWindow(name)
	window.SetContent(img)
	window.Resize(fyne.NewSize(float32(size.X), float32(size.Y)))
	window.SetOnClosed(func() {
		if _, open := f.windows[name]; open {
			f.logger.WithField("window", name).Info("Window closed")
			f.stop.Store(true)
			delete(f.windows, name)
		}
	})
	window.Show()

	w := &fyneWindow{window: window, image: img}
	f.windows[name] = w
	f.logger.WithField("window", name).Debug("Window opened")
	return w
}
