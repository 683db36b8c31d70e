package maxicode

import rxing "github.com/rxing-core/rxing-sub004"

func init() {
	rxing.RegisterReader(rxing.FormatMaxiCode, func(opts *rxing.DecodeOptions) rxing.Reader {
		return NewReader()
	})
}
