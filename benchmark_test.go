package rxing_test

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"testing"

	rxing "github.com/rxing-core/rxing-sub004"
	"github.com/rxing-core/rxing-sub004/binarizer"

	_ "github.com/rxing-core/rxing-sub004/aztec"
	_ "github.com/rxing-core/rxing-sub004/datamatrix"
	_ "github.com/rxing-core/rxing-sub004/oned"
	_ "github.com/rxing-core/rxing-sub004/pdf417"
	_ "github.com/rxing-core/rxing-sub004/qrcode"
)

func loadTestImage(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		panic("failed to open image: " + err.Error())
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		panic("failed to decode image: " + err.Error())
	}
	return img
}

var decodeTests = []struct {
	name   string
	path   string
	format rxing.Format
}{
	{"QRCode", "testdata/blackbox/qrcode-1/1.png", rxing.FormatQRCode},
	{"DataMatrix", "testdata/blackbox/datamatrix-1/0123456789.png", rxing.FormatDataMatrix},
	{"PDF417", "testdata/blackbox/pdf417-1/01.png", rxing.FormatPDF417},
	{"Aztec", "testdata/blackbox/aztec-1/abc-37x37.png", rxing.FormatAztec},
	{"Code128", "testdata/blackbox/code128-1/1.png", rxing.FormatCode128},
	{"EAN13", "testdata/blackbox/ean13-1/1.png", rxing.FormatEAN13},
}

var encodeTests = []struct {
	name    string
	content string
	format  rxing.Format
	width   int
	height  int
}{
	{"QRCode", "Hello, World! This is a QR code benchmark test.", rxing.FormatQRCode, 400, 400},
	{"DataMatrix", "Hello DataMatrix", rxing.FormatDataMatrix, 0, 0},
	{"PDF417", "Hello PDF417 Benchmark Test Data", rxing.FormatPDF417, 0, 0},
	{"Aztec", "Hello Aztec Code", rxing.FormatAztec, 0, 0},
	{"Code128", "Hello123", rxing.FormatCode128, 300, 100},
	{"EAN13", "5901234123457", rxing.FormatEAN13, 300, 100},
}

func BenchmarkDecode(b *testing.B) {
	for _, tc := range decodeTests {
		b.Run(tc.name, func(b *testing.B) {
			img := loadTestImage(tc.path)
			opts := &rxing.DecodeOptions{
				PossibleFormats: []rxing.Format{tc.format},
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				// Create fresh binarizer/bitmap each iteration since HybridBinarizer caches
				source := rxing.NewImageLuminanceSource(img)
				bitmap := rxing.NewBinaryBitmap(binarizer.NewHybrid(source))
				_, err := rxing.Decode(bitmap, opts)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	for _, tc := range encodeTests {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := rxing.Encode(tc.content, tc.format, tc.width, tc.height, nil)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
