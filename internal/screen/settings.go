package screen

import (
	"fmt"
	"sync"

	"github.com/i474232898/weather-screen/internal/weather"
)

// SettingsDialog is the modal unit chooser. The two options are mutually
// exclusive; the selection reaches the controller only on Dismiss.
type SettingsDialog struct {
	mu        sync.Mutex
	ctrl      *Controller
	selected  weather.Unit
	dismissed bool
}

// OpenSettings opens the dialog preselected with the current unit.
func (c *Controller) OpenSettings() *SettingsDialog {
	return &SettingsDialog{ctrl: c, selected: c.Unit()}
}

// Options lists the choices in display order.
func (d *SettingsDialog) Options() []weather.Unit {
	return []weather.Unit{weather.Celsius, weather.Fahrenheit}
}

// Choose selects u, replacing the previous choice.
func (d *SettingsDialog) Choose(u weather.Unit) error {
	if !u.Valid() {
		return fmt.Errorf("%w: %q", weather.ErrInvalidUnit, u)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dismissed {
		return fmt.Errorf("settings dialog already dismissed")
	}
	d.selected = u
	return nil
}

// Selected returns the current choice.
func (d *SettingsDialog) Selected() weather.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// Dismiss closes the dialog and applies the selection to the controller.
// Dismissing twice is a no-op.
func (d *SettingsDialog) Dismiss() (weather.Unit, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dismissed {
		return d.selected, nil
	}
	d.dismissed = true
	if err := d.ctrl.SetUnitPreference(d.selected); err != nil {
		return d.selected, err
	}
	return d.selected, nil
}
