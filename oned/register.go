package oned

import rxing "github.com/rxing-core/rxing-sub004"

func init() {
	// Register all 1D readers via the multi-format 1D reader.
	oneDReaderFactory := func(opts *rxing.DecodeOptions) rxing.Reader {
		return NewMultiFormatOneDReader(opts)
	}
	rxing.RegisterReader(rxing.FormatCode128, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatCode39, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatEAN13, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatEAN8, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatUPCA, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatUPCE, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatITF, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatCodabar, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatRSS14, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatRSSExpanded, oneDReaderFactory)
	rxing.RegisterReader(rxing.FormatCode93, oneDReaderFactory)

	// Register writers
	rxing.RegisterWriter(rxing.FormatCode128, func() rxing.Writer { return NewCode128Writer() })
	rxing.RegisterWriter(rxing.FormatCode39, func() rxing.Writer { return NewCode39Writer() })
	rxing.RegisterWriter(rxing.FormatEAN13, func() rxing.Writer { return NewEAN13Writer() })
	rxing.RegisterWriter(rxing.FormatEAN8, func() rxing.Writer { return NewEAN8Writer() })
	rxing.RegisterWriter(rxing.FormatUPCA, func() rxing.Writer { return NewUPCAWriter() })
	rxing.RegisterWriter(rxing.FormatUPCE, func() rxing.Writer { return NewUPCEWriter() })
	rxing.RegisterWriter(rxing.FormatITF, func() rxing.Writer { return NewITFWriter() })
	rxing.RegisterWriter(rxing.FormatCodabar, func() rxing.Writer { return NewCodabarWriter() })
	rxing.RegisterWriter(rxing.FormatCode93, func() rxing.Writer { return NewCode93Writer() })
}
