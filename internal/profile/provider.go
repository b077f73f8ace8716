package profile

import (
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/interval"
)

// Provider computes a kind's tiling profile from its options. Providers are
// pure: the same options always yield the same profile.
type Provider interface {
	Profile(opts Options) (Profile, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(opts Options) (Profile, error)

// Profile calls f(opts).
func (f ProviderFunc) Profile(opts Options) (Profile, error) {
	return f(opts)
}

// Static reads explicit entries from the "tiles" option, each an object with
// data_length, valid_start and valid_end. Optional pad_start/pad_end enable
// data window extension.
var Static Provider = ProviderFunc(func(opts Options) (Profile, error) {
	tiles, err := opts.Objects("tiles")
	if err != nil {
		return Profile{}, err
	}
	p := Profile{Kind: opts.Kind()}
	for _, tile := range tiles {
		dataLength, err := tile.Int("data_length")
		if err != nil {
			return Profile{}, err
		}
		start, err := tile.Int("valid_start")
		if err != nil {
			return Profile{}, err
		}
		end, err := tile.Int("valid_end")
		if err != nil {
			return Profile{}, err
		}
		valid, err := interval.New(start, end)
		if err != nil {
			return Profile{}, opts.invalid("tiles", err)
		}
		p.Entries = append(p.Entries, Entry{DataLength: dataLength, Valid: valid})
	}

	if opts.Has("pad_start") || opts.Has("pad_end") {
		ps, err := opts.IntOr("pad_start", 0)
		if err != nil {
			return Profile{}, err
		}
		pe, err := opts.IntOr("pad_end", 0)
		if err != nil {
			return Profile{}, err
		}
		p.Padding = &Padding{Start: ps, End: pe}
	}
	return p, nil
})

// TemplateBank sizes bank generation jobs: analysis_length seconds of output
// with pad_data seconds discarded at each end.
var TemplateBank Provider = ProviderFunc(func(opts Options) (Profile, error) {
	pad, err := opts.Int("pad_data")
	if err != nil {
		return Profile{}, err
	}
	analysis, err := opts.Int("analysis_length")
	if err != nil {
		return Profile{}, err
	}
	dataLength := analysis + 2*pad
	return Single(opts.Kind(), dataLength, pad, dataLength-pad), nil
})

// MatchedFilter enumerates job sizes made of whole analysis segments, between
// min_analysis_segments and max_analysis_segments, filtered by the
// min/max analysis length. With allow_zero_padding the segment pads become
// analysable and are instead recovered by extending the data window.
var MatchedFilter Provider = ProviderFunc(func(opts Options) (Profile, error) {
	minSegs, err := opts.IntOr("min_analysis_segments", 0)
	if err != nil {
		return Profile{}, err
	}
	maxSegs, err := opts.IntOr("max_analysis_segments", 1000)
	if err != nil {
		return Profile{}, err
	}
	minLength, err := opts.IntOr("min_analysis_length", 0)
	if err != nil {
		return Profile{}, err
	}
	maxLength, err := opts.IntOr("max_analysis_length", 100000)
	if err != nil {
		return Profile{}, err
	}
	segmentLength, err := opts.Int("segment_length")
	if err != nil {
		return Profile{}, err
	}
	padData, err := opts.IntOr("pad_data", 0)
	if err != nil {
		return Profile{}, err
	}
	zeroPadding, err := opts.BoolOr("allow_zero_padding", false)
	if err != nil {
		return Profile{}, err
	}
	startPad, err := opts.Int("segment_start_pad")
	if err != nil {
		return Profile{}, err
	}
	endPad, err := opts.Int("segment_end_pad")
	if err != nil {
		return Profile{}, err
	}
	if segmentLength <= startPad+endPad {
		return Profile{}, opts.invalid("segment_length",
			fmt.Errorf("%d leaves nothing to analyse after pads %d+%d", segmentLength, startPad, endPad))
	}

	window := func(dataLength int64) (int64, int64) {
		if zeroPadding {
			return padData, dataLength - padData
		}
		return padData + startPad, dataLength - padData - endPad
	}

	p := Profile{Kind: opts.Kind()}
	for nsegs := minSegs; nsegs <= maxSegs; nsegs++ {
		analysis := (segmentLength - startPad - endPad) * nsegs
		dataLength := analysis + 2*padData
		if !zeroPadding {
			dataLength += startPad + endPad
		}
		if dataLength > maxLength || dataLength < minLength {
			continue
		}
		start, end := window(dataLength)
		// Zero analysis segments gives an empty valid span, which no tiling can use.
		if end <= start {
			continue
		}
		p.Entries = append(p.Entries, Entry{DataLength: dataLength, Valid: interval.Interval{Start: start, End: end}})
	}

	if minLength > 0 {
		start, end := window(minLength)
		if end > start {
			p.Entries = append(p.Entries, Entry{DataLength: minLength, Valid: interval.Interval{Start: start, End: end}})
		}
	}

	if zeroPadding {
		p.Padding = &Padding{Start: startPad, End: endPad}
	}
	return p, nil
})

// CoherentWindows returns the absolute data and valid windows of a coherent
// (targeted) analysis reading exactly span. The valid window follows the
// first rule whose options are present: explicit segment pads,
// analyse_segment_end, or a quarter segment of overlap at each end.
func CoherentWindows(opts Options, span interval.Interval) (data, valid interval.Interval, err error) {
	pad, err := opts.Int("pad_data")
	if err != nil {
		return data, valid, err
	}

	var start, end int64
	switch {
	case opts.Has("segment_start_pad"):
		startPad, err := opts.Int("segment_start_pad")
		if err != nil {
			return data, valid, err
		}
		endPad, err := opts.Int("segment_end_pad")
		if err != nil {
			return data, valid, err
		}
		start = span.Start + pad + startPad
		end = span.End - pad - endPad
	case opts.Has("analyse_segment_end"):
		const safety = 1
		segmentLength, err := opts.Int("segment_length")
		if err != nil {
			return data, valid, err
		}
		specLength, err := opts.Int("inverse_spec_length")
		if err != nil {
			return data, valid, err
		}
		deadtime := segmentLength / 2
		halfSpec := specLength / 2
		start = span.Start + deadtime - halfSpec + pad - safety
		end = span.End - halfSpec - pad - safety
	default:
		segmentLength, err := opts.Int("segment_length")
		if err != nil {
			return data, valid, err
		}
		overlap := segmentLength / 4
		start = span.Start + overlap + pad
		end = span.End - overlap - pad
	}

	valid, err = interval.New(start, end)
	if err != nil {
		return data, valid, opts.invalid("pad_data", fmt.Errorf("valid window is empty for data %s: %w", span, err))
	}
	return span, valid, nil
}
