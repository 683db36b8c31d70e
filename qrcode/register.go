package qrcode

import rxing "github.com/rxing-core/rxing-sub004"

func init() {
	rxing.RegisterReader(rxing.FormatQRCode, func(opts *rxing.DecodeOptions) rxing.Reader {
		return NewReader()
	})
	rxing.RegisterWriter(rxing.FormatQRCode, func() rxing.Writer {
		return NewWriter()
	})
}
