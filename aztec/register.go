package aztec

import rxing "github.com/rxing-core/rxing-sub004"

func init() {
	rxing.RegisterReader(rxing.FormatAztec, func(opts *rxing.DecodeOptions) rxing.Reader {
		return NewReader()
	})
	rxing.RegisterWriter(rxing.FormatAztec, func() rxing.Writer {
		return NewWriter()
	})
}
