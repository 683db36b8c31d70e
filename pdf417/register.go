package pdf417

import rxing "github.com/rxing-core/rxing-sub004"

func init() {
	rxing.RegisterReader(rxing.FormatPDF417, func(opts *rxing.DecodeOptions) rxing.Reader {
		return NewPDF417Reader()
	})
	rxing.RegisterWriter(rxing.FormatPDF417, func() rxing.Writer {
		return NewPDF417Writer()
	})
}
