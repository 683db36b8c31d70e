package datamatrix

import rxing "github.com/rxing-core/rxing-sub004"

func init() {
	rxing.RegisterReader(rxing.FormatDataMatrix, func(opts *rxing.DecodeOptions) rxing.Reader {
		return NewReader()
	})
	rxing.RegisterWriter(rxing.FormatDataMatrix, func() rxing.Writer {
		return NewWriter()
	})
}
