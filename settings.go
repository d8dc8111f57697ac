package lumimap

import "github.com/bodgit/lumimap/colormap"

// Default mapping parameters.
const (
	DefaultMin           = 0.00001
	DefaultMax           = 10000
	DefaultBaseLuminance = 100
)

// LuminanceSettings is the absolute-luminance log range in cd/m².
type LuminanceSettings struct {
	Min, Max float64
}

// ContrastSettings holds the reference luminance ratios are taken against.
type ContrastSettings struct {
	BaseLuminance float64
}

// Settings are the user-adjustable mapping parameters.
type Settings struct {
	Luminance LuminanceSettings
	Contrast  ContrastSettings
}

// DefaultSettings returns the initial parameters of a new session.
func DefaultSettings() Settings {
	return Settings{
		Luminance: LuminanceSettings{Min: DefaultMin, Max: DefaultMax},
		Contrast:  ContrastSettings{BaseLuminance: DefaultBaseLuminance},
	}
}

// Validate returns an error wrapping colormap.ErrInvalidParameter if any
// value is unusable.
func (s Settings) Validate() error {
	if _, err := colormap.NewLogScale(s.Luminance.Min, s.Luminance.Max); err != nil {
		return err
	}
	if err := colormap.CheckBaseLuminance(s.Contrast.BaseLuminance); err != nil {
		return err
	}
	return nil
}

func (s Settings) params() colormap.Params {
	return colormap.Params{
		Min:           s.Luminance.Min,
		Max:           s.Luminance.Max,
		BaseLuminance: s.Contrast.BaseLuminance,
	}
}
