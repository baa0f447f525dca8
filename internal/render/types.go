package render

// Category describes one section of the roster image.
type Category struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	SlotCount int    `json:"slotCount"`
}

// Request is a parameterized description of a roster image. Category order
// and the player order within each category are preserved in the output.
type Request struct {
	ClubID         string              `json:"clubId"`
	Categories     []Category          `json:"categories"`
	CategorizedIDs map[string][]string `json:"categorizedIds"`
}

// QualityOptions control output geometry and encoding. Zero values are
// replaced with defaults by Normalized; the struct is immutable per call.
type QualityOptions struct {
	Quality          int  `json:"quality"`
	Width            int  `json:"width"`
	Height           int  `json:"height"`
	OptimizeForSpeed bool `json:"optimizeForSpeed"`
}

// DefaultQualityOptions returns the defaults: quality 85, 550x800, speed on.
func DefaultQualityOptions() QualityOptions {
	return QualityOptions{
		Quality:          85,
		Width:            550,
		Height:           800,
		OptimizeForSpeed: true,
	}
}

// Normalized fills zero fields with defaults and clamps quality into 1-100.
func (q QualityOptions) Normalized() QualityOptions {
	d := DefaultQualityOptions()
	if q.Quality <= 0 {
		q.Quality = d.Quality
	}
	if q.Quality > 100 {
		q.Quality = 100
	}
	if q.Width <= 0 {
		q.Width = d.Width
	}
	if q.Height <= 0 {
		q.Height = d.Height
	}
	return q
}

// DPRForQuality selects the device-pixel-ratio tier: higher ratios trade
// render time for sharper embedded photos.
func DPRForQuality(quality int) float64 {
	switch {
	case quality >= 95:
		return 2.5
	case quality >= 90:
		return 2.0
	default:
		return 1.5
	}
}
