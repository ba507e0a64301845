package meta

import exr "github.com/johannesvollmer/exrs-sub002"

// requiredAttributes lists the attribute names every header must carry.
var requiredAttributes = []string{
	"channels", "compression", "dataWindow", "displayWindow",
	"lineOrder", "pixelAspectRatio", "screenWindowCenter", "screenWindowWidth",
}

// requiredTiledAttributes are additionally required on tiled parts.
var requiredTiledAttributes = []string{"tiles"}

// requiredMultiPartAttributes are additionally required when the file
// declares multi-part (or when there's more than one header).
var requiredMultiPartAttributes = []string{"name", "type", "chunkCount"}

// requiredDeepDataAttributes are additionally required on deep parts.
var requiredDeepDataAttributes = []string{"version", "maxSamplesPerPixel"}

// ValidateRequiredAttributes checks that h carries every attribute its
// shape demands, per §6's required-attribute table.
func (h *Header) ValidateRequiredAttributes(multiPart bool) error {
	have := make(map[string]bool, len(h.OwnAttributes))
	for _, a := range h.OwnAttributes {
		have[a.Name.String()] = true
	}

	check := func(names []string) error {
		for _, name := range names {
			if !have[name] {
				return exr.Invalid("missing required attribute: " + name)
			}
		}
		return nil
	}

	if err := check(requiredAttributes); err != nil {
		return err
	}
	if h.IsTiled() {
		if err := check(requiredTiledAttributes); err != nil {
			return err
		}
	}
	if multiPart {
		if err := check(requiredMultiPartAttributes); err != nil {
			return err
		}
	}
	if h.Deep {
		if err := check(requiredDeepDataAttributes); err != nil {
			return err
		}
	}
	return nil
}
